package dispute

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingReason blocks submission until a reason is entered.
	ErrMissingReason = errors.New("dispute: reason for decision is required")
	// ErrMissingPartialAmount blocks a partial ruling without an amount.
	ErrMissingPartialAmount = errors.New("dispute: refund amount is required for partial resolution")
	// ErrSubmitting rejects a submit while one is already in flight.
	ErrSubmitting = errors.New("dispute: submission already in progress")
)

// GenericFailureMessage is the single user-facing message for any resolution
// failure past validation. The underlying cause is returned to the caller for
// diagnostics but never shown to the user.
const GenericFailureMessage = "Failed to update dispute status. Please try again."

// confirmDelay is how long the success confirmation stays visible before the
// session hands control back to the caller's go-back continuation.
const confirmDelay = 1200 * time.Millisecond

type sessionState string

const (
	stateEditing    sessionState = "editing"
	stateSubmitting sessionState = "submitting"
	stateResolved   sessionState = "resolved"
)

// ReviewSession holds an operator's in-progress ruling on one dispute. It is
// a per-operator, in-memory object driven by a single caller; it owns no
// durable state. Validation failures never reach the resolver or the store,
// and a failed submission returns to editing so the operator can resubmit.
type ReviewSession struct {
	record Record

	decision      Decision
	reason        string
	partialAmount string

	state   sessionState
	lastErr string

	resolver     *Resolver
	orchestrator *Orchestrator
	onBack       func()
	sleep        func(time.Duration)
}

// NewReviewSession opens a session over the given dispute record. The
// decision defaults to favoring the buyer. onBack is invoked after a
// successful submission once the confirmation delay has elapsed; it may be
// nil.
func NewReviewSession(rec Record, resolver *Resolver, orchestrator *Orchestrator, onBack func()) *ReviewSession {
	return &ReviewSession{
		record:       rec,
		decision:     FavorBuyer,
		state:        stateEditing,
		resolver:     resolver,
		orchestrator: orchestrator,
		onBack:       onBack,
		sleep:        time.Sleep,
	}
}

// WithSleep replaces the confirmation-delay sleep. Used by tests.
func (s *ReviewSession) WithSleep(sleep func(time.Duration)) *ReviewSession {
	s.sleep = sleep
	return s
}

// Record returns the dispute under review.
func (s *ReviewSession) Record() Record { return s.record }

// Decision returns the currently selected ruling.
func (s *ReviewSession) Decision() Decision { return s.decision }

// Reason returns the entered reason text.
func (s *ReviewSession) Reason() string { return s.reason }

// PartialAmount returns the entered partial refund amount.
func (s *ReviewSession) PartialAmount() string { return s.partialAmount }

// IsSubmitting reports whether a submission is in flight.
func (s *ReviewSession) IsSubmitting() bool { return s.state == stateSubmitting }

// IsResolved reports whether the dispute was resolved by this session.
func (s *ReviewSession) IsResolved() bool { return s.state == stateResolved }

// LastError returns the retained user-facing error message, empty when none.
func (s *ReviewSession) LastError() string { return s.lastErr }

// SetDecision selects a ruling.
func (s *ReviewSession) SetDecision(d Decision) { s.decision = d }

// SetReason sets the reason text.
func (s *ReviewSession) SetReason(reason string) { s.reason = reason }

// SetPartialAmount sets the partial refund amount.
func (s *ReviewSession) SetPartialAmount(amount string) { s.partialAmount = amount }

// Submit validates the session, derives the resolution, and pushes it through
// the orchestrator. Validation errors are returned before any external call
// is made. Resolver and orchestrator failures return the session to editing
// with GenericFailureMessage retained; the underlying error is returned for
// diagnostics. On success the session enters the resolved state, waits out
// the confirmation delay, and invokes the go-back continuation.
func (s *ReviewSession) Submit(ctx context.Context) error {
	if s.state == stateSubmitting {
		return ErrSubmitting
	}
	if s.reason == "" {
		return ErrMissingReason
	}
	if s.decision == DecisionPartial && s.partialAmount == "" {
		return ErrMissingPartialAmount
	}

	s.state = stateSubmitting
	s.lastErr = ""

	res, err := s.resolver.Resolve(ctx, s.decision, s.record.GigID, s.record.SellerID, s.partialAmount)
	if err != nil {
		s.fail()
		return err
	}
	if err := s.orchestrator.Apply(ctx, s.record.ID, s.reason, res); err != nil {
		s.fail()
		return err
	}

	s.state = stateResolved
	s.sleep(confirmDelay)
	if s.onBack != nil {
		s.onBack()
	}
	return nil
}

func (s *ReviewSession) fail() {
	s.state = stateEditing
	s.lastErr = GenericFailureMessage
}
