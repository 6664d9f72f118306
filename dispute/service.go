package dispute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sellerdash/money"
)

// Service exposes the dispute flows: listing, filing a report, and resolving
// a case through a review session.
type Service struct {
	repo         Repository
	resolver     *Resolver
	orchestrator *Orchestrator
	idGenerator  func() string
}

// NewService wires the service. bids is the lookup used to compute
// buyer-favored refunds.
func NewService(repo Repository, bids BidLookup) *Service {
	return &Service{
		repo:         repo,
		resolver:     NewResolver(bids),
		orchestrator: NewOrchestrator(repo),
		idGenerator:  func() string { return uuid.NewString() },
	}
}

// WithIDGenerator replaces the id source. Used by tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// ListForSeller returns the seller's disputes, newest first.
func (s *Service) ListForSeller(ctx context.Context, sellerID string) ([]Record, error) {
	return s.repo.ListForSeller(ctx, sellerID)
}

// ReviewQueue returns disputes still under review, oldest first.
func (s *Service) ReviewQueue(ctx context.Context) ([]Record, error) {
	return s.repo.ListOpen(ctx)
}

// GetByID returns a single dispute.
func (s *Service) GetByID(ctx context.Context, disputeID string) (Record, error) {
	return s.repo.GetByID(ctx, disputeID)
}

// FileParams describes a new dispute report against a transaction.
type FileParams struct {
	GigID       string
	BuyerID     string
	SellerID    string
	Title       string
	Description string
	Amount      money.Amount
}

// File creates a dispute under review.
func (s *Service) File(ctx context.Context, params FileParams) (Record, error) {
	if strings.TrimSpace(params.GigID) == "" {
		return Record{}, fmt.Errorf("dispute: missing gig id")
	}
	if strings.TrimSpace(params.BuyerID) == "" || strings.TrimSpace(params.SellerID) == "" {
		return Record{}, fmt.Errorf("dispute: missing buyer or seller")
	}
	if strings.TrimSpace(params.Description) == "" {
		return Record{}, fmt.Errorf("dispute: missing description")
	}
	return s.repo.Create(ctx, CreateParams{
		ID:          s.idGenerator(),
		GigID:       params.GigID,
		BuyerID:     params.BuyerID,
		SellerID:    params.SellerID,
		Title:       params.Title,
		Description: params.Description,
		Amount:      params.Amount,
	})
}

// OpenReview loads the dispute and opens a review session over it. onBack is
// the caller's go-back continuation, invoked after a successful submission;
// it may be nil.
func (s *Service) OpenReview(ctx context.Context, disputeID string, onBack func()) (*ReviewSession, error) {
	rec, err := s.repo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	return NewReviewSession(rec, s.resolver, s.orchestrator, onBack), nil
}

// SubmitResolution is the single-call form of the review flow used by the
// HTTP layer: it opens a session, applies the ruling, and submits.
func (s *Service) SubmitResolution(ctx context.Context, disputeID string, decision Decision, reason, partialAmount string) (Record, error) {
	session, err := s.OpenReview(ctx, disputeID, nil)
	if err != nil {
		return Record{}, err
	}
	// The confirmation delay is a screen affordance; a one-shot API call
	// returns immediately.
	session.WithSleep(func(time.Duration) {})
	session.SetDecision(decision)
	session.SetReason(reason)
	session.SetPartialAmount(partialAmount)
	if err := session.Submit(ctx); err != nil {
		return Record{}, err
	}
	return s.repo.GetByID(ctx, disputeID)
}
