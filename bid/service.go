package bid

import "context"

// Reader abstracts repository operations for the service.
type Reader interface {
	ListByGig(ctx context.Context, gigID string) ([]Bid, error)
}

// Service exposes business-level bid operations.
type Service struct {
	repo Reader
}

// NewService builds a Service using the provided repository.
func NewService(repo Reader) *Service {
	return &Service{repo: repo}
}

// BidsForGig returns every bid placed on the gig.
func (s *Service) BidsForGig(ctx context.Context, gigID string) ([]Bid, error) {
	return s.repo.ListByGig(ctx, gigID)
}
