package dispute

import (
	"context"
	"fmt"
)

// Store is the external dispute store. The three updaters are independent
// calls with no transactional wrapping; the store offers no multi-step
// transaction primitive.
type Store interface {
	SetStatus(ctx context.Context, disputeID string, status Status) error
	SetResolutionComment(ctx context.Context, disputeID, comment string) error
	SetOutcome(ctx context.Context, disputeID string, outcome Outcome, refundAmount string) error
}

// Orchestrator applies a resolution to the dispute store as an ordered,
// non-transactional sequence of calls.
type Orchestrator struct {
	store Store
}

// NewOrchestrator builds an Orchestrator over the given store.
func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{store: store}
}

// Apply persists a resolution: status first, then the comment when a reason
// was given, then outcome and refund together. Status goes first so a later
// failure leaves the dispute resolved-but-missing-detail rather than stuck
// open. On any failure Apply aborts immediately with no retry and no
// compensating rollback; the wrapped error names the step that failed so the
// cause survives even though callers surface a single generic message.
// Re-running Apply with the same arguments is safe: the status update is
// idempotent and the remaining steps overwrite the same fields.
func (o *Orchestrator) Apply(ctx context.Context, disputeID, reason string, res Resolution) error {
	if err := o.store.SetStatus(ctx, disputeID, StatusResolved); err != nil {
		return fmt.Errorf("dispute: set status: %w", err)
	}
	if reason != "" {
		if err := o.store.SetResolutionComment(ctx, disputeID, reason); err != nil {
			return fmt.Errorf("dispute: set resolution comment: %w", err)
		}
	}
	if err := o.store.SetOutcome(ctx, disputeID, res.Outcome, res.RefundAmount); err != nil {
		return fmt.Errorf("dispute: set outcome: %w", err)
	}
	return nil
}
