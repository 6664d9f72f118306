package earnings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrTransactionNotFound signals an unknown transaction id.
	ErrTransactionNotFound = errors.New("earnings: transaction not found")
	// ErrWalletNotFound signals the seller has no wallet row.
	ErrWalletNotFound = errors.New("earnings: wallet not found")
)

// Repository handles data access for the earnings screen.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txColumns = `id, seller_id, gig_id, buyer_id, kind::text, status::text, description, counterparty, amount_minor, occurred_at`

// ListTransactions fetches the seller's transactions, newest first.
func (r *Repository) ListTransactions(ctx context.Context, sellerID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := `SELECT ` + txColumns + ` FROM transactions WHERE seller_id = $1 ORDER BY occurred_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sellerID, limit)
	if err != nil {
		return nil, fmt.Errorf("earnings: list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("earnings: scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("earnings: iterate transactions: %w", err)
	}
	return out, nil
}

// GetTransaction fetches one transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, txID string) (Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		return Transaction{}, fmt.Errorf("earnings: get transaction: %w", err)
	}
	return tx, nil
}

// Summary computes the headline numbers from the transactions table.
// Available balance is everything settled; pending earnings are payments not
// yet settled; total earned counts settled payments only.
func (r *Repository) Summary(ctx context.Context, sellerID string) (Summary, error) {
	const query = `
		SELECT
			COALESCE(SUM(amount_minor) FILTER (WHERE status = 'settled'), 0),
			COALESCE(SUM(amount_minor) FILTER (WHERE kind = 'payment' AND status = 'pending'), 0),
			COALESCE(SUM(amount_minor) FILTER (WHERE kind = 'payment' AND status = 'settled'), 0)
		FROM transactions
		WHERE seller_id = $1
	`

	var s Summary
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(&s.AvailableBalance, &s.PendingEarnings, &s.TotalEarned)
	if err != nil {
		return Summary{}, fmt.Errorf("earnings: summary: %w", err)
	}
	return s, nil
}

// GetWallet fetches the seller's crypto wallet.
func (r *Repository) GetWallet(ctx context.Context, sellerID string) (Wallet, error) {
	const query = `
		SELECT seller_id, balance, address, currency
		FROM wallets
		WHERE seller_id = $1
	`

	var w Wallet
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(&w.SellerID, &w.Balance, &w.Address, &w.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, fmt.Errorf("earnings: get wallet: %w", err)
	}
	return w, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	err := row.Scan(
		&tx.ID,
		&tx.SellerID,
		&tx.GigID,
		&tx.BuyerID,
		&tx.Kind,
		&tx.Status,
		&tx.Description,
		&tx.Counterparty,
		&tx.Amount,
		&tx.OccurredAt,
	)
	if err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
