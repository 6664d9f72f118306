package earnings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"sellerdash/dispute"
)

var (
	// ErrNotDisputable signals a report against something other than a
	// received payment.
	ErrNotDisputable = errors.New("earnings: only payments can be disputed")
	// ErrNotOwner signals a report against another seller's transaction.
	ErrNotOwner = errors.New("earnings: transaction belongs to another seller")
)

// Ledger abstracts repository operations for the service.
type Ledger interface {
	ListTransactions(ctx context.Context, sellerID string, limit int) ([]Transaction, error)
	GetTransaction(ctx context.Context, txID string) (Transaction, error)
	Summary(ctx context.Context, sellerID string) (Summary, error)
	GetWallet(ctx context.Context, sellerID string) (Wallet, error)
}

// DisputeFiler opens a dispute case from a transaction report.
type DisputeFiler interface {
	File(ctx context.Context, params dispute.FileParams) (dispute.Record, error)
}

// Service exposes the earnings screen operations.
type Service struct {
	ledger   Ledger
	disputes DisputeFiler
}

// NewService builds a Service over the ledger and the dispute filer.
func NewService(ledger Ledger, disputes DisputeFiler) *Service {
	return &Service{ledger: ledger, disputes: disputes}
}

// Overview assembles the earnings screen in one call. The three reads are
// independent, so they fan out concurrently.
func (s *Service) Overview(ctx context.Context, sellerID string, txLimit int) (Overview, error) {
	var out Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.ledger.Summary(ctx, sellerID)
		if err != nil {
			return err
		}
		out.Summary = summary
		return nil
	})
	g.Go(func() error {
		txs, err := s.ledger.ListTransactions(ctx, sellerID, txLimit)
		if err != nil {
			return err
		}
		out.Transactions = txs
		return nil
	})
	g.Go(func() error {
		wallet, err := s.ledger.GetWallet(ctx, sellerID)
		if err != nil {
			// A seller without a wallet still gets the rest of the screen.
			if errors.Is(err, ErrWalletNotFound) {
				return nil
			}
			return err
		}
		out.Wallet = wallet
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// Transactions returns the seller's transaction feed.
func (s *Service) Transactions(ctx context.Context, sellerID string, limit int) ([]Transaction, error) {
	return s.ledger.ListTransactions(ctx, sellerID, limit)
}

// FileReport files a dispute against one of the seller's received payments.
// Withdrawals are not disputable; there is no counterparty to rule against.
func (s *Service) FileReport(ctx context.Context, sellerID, txID, reason string) (dispute.Record, error) {
	if strings.TrimSpace(reason) == "" {
		return dispute.Record{}, fmt.Errorf("earnings: report reason required")
	}

	tx, err := s.ledger.GetTransaction(ctx, txID)
	if err != nil {
		return dispute.Record{}, err
	}
	if tx.SellerID != sellerID {
		return dispute.Record{}, ErrNotOwner
	}
	if tx.Kind != KindPayment || tx.GigID == nil || tx.BuyerID == nil {
		return dispute.Record{}, ErrNotDisputable
	}

	return s.disputes.File(ctx, dispute.FileParams{
		GigID:       *tx.GigID,
		BuyerID:     *tx.BuyerID,
		SellerID:    tx.SellerID,
		Title:       "Dispute over " + tx.Description,
		Description: reason,
		Amount:      tx.Amount,
	})
}
