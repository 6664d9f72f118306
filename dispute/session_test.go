package dispute

import (
	"context"
	"errors"
	"testing"
	"time"

	"sellerdash/bid"
)

func newTestSession(store *fakeStore, lookup *fakeBidLookup, onBack func()) *ReviewSession {
	rec := Record{ID: "D1", GigID: "G1", BuyerID: "BUY1", SellerID: "SEL1"}
	s := NewReviewSession(rec, NewResolver(lookup), NewOrchestrator(store), onBack)
	return s.WithSleep(func(time.Duration) {})
}

func TestSession_DefaultsToFavorBuyer(t *testing.T) {
	s := newTestSession(&fakeStore{}, &fakeBidLookup{}, nil)
	if s.Decision() != FavorBuyer {
		t.Fatalf("expected default decision %s, got %s", FavorBuyer, s.Decision())
	}
	if s.IsSubmitting() || s.IsResolved() || s.LastError() != "" {
		t.Fatalf("expected fresh editing session, got %+v", s)
	}
}

func TestSession_MissingReasonBlocksSubmission(t *testing.T) {
	store := &fakeStore{}
	lookup := &fakeBidLookup{bids: []bid.Bid{{SellerID: "SEL1", Amount: 1200}}}
	s := newTestSession(store, lookup, nil)

	for _, d := range []Decision{FavorBuyer, FavorSeller, DecisionPartial} {
		s.SetDecision(d)
		if err := s.Submit(context.Background()); !errors.Is(err, ErrMissingReason) {
			t.Fatalf("decision %s: expected ErrMissingReason, got %v", d, err)
		}
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}
	if lookup.calls != 0 {
		t.Fatalf("expected no bid lookup, got %d calls", lookup.calls)
	}
}

func TestSession_MissingPartialAmountBlocksSubmission(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, &fakeBidLookup{}, nil)
	s.SetDecision(DecisionPartial)
	s.SetReason("half the work was delivered")

	if err := s.Submit(context.Background()); !errors.Is(err, ErrMissingPartialAmount) {
		t.Fatalf("expected ErrMissingPartialAmount, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}
}

func TestSession_EndToEndBuyerFavored(t *testing.T) {
	store := &fakeStore{}
	lookup := &fakeBidLookup{bids: []bid.Bid{{SellerID: "SEL1", GigID: "G1", Amount: 1200}}}
	wentBack := false
	s := newTestSession(store, lookup, func() { wentBack = true })
	s.SetReason("evidence supports buyer")

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.status != StatusResolved {
		t.Errorf("expected status %s, got %s", StatusResolved, store.status)
	}
	if store.comment != "evidence supports buyer" {
		t.Errorf("unexpected comment %q", store.comment)
	}
	if store.outcome != OutcomeApproved {
		t.Errorf("expected outcome %s, got %s", OutcomeApproved, store.outcome)
	}
	if store.refund != "1200" {
		t.Errorf("expected refund %q, got %q", "1200", store.refund)
	}
	if !s.IsResolved() {
		t.Error("expected session in resolved state")
	}
	if !wentBack {
		t.Error("expected go-back continuation to run")
	}
}

func TestSession_SellerBidNotFoundReturnsToEditing(t *testing.T) {
	store := &fakeStore{}
	s := newTestSession(store, &fakeBidLookup{}, nil)
	s.SetReason("no evidence either way")

	err := s.Submit(context.Background())
	if !errors.Is(err, ErrSellerBidNotFound) {
		t.Fatalf("expected ErrSellerBidNotFound for diagnostics, got %v", err)
	}
	if s.LastError() != GenericFailureMessage {
		t.Errorf("expected generic message %q, got %q", GenericFailureMessage, s.LastError())
	}
	if s.IsSubmitting() || s.IsResolved() {
		t.Error("expected session back in editing state")
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls after resolver failure, got %v", store.calls)
	}
}

func TestSession_StepFailureThenResubmit(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{commentErr: boom}
	lookup := &fakeBidLookup{bids: []bid.Bid{{SellerID: "SEL1", Amount: 1200}}}
	wentBack := false
	s := newTestSession(store, lookup, func() { wentBack = true })
	s.SetReason("evidence supports buyer")

	if err := s.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected step failure, got %v", err)
	}
	if s.LastError() != GenericFailureMessage {
		t.Errorf("expected generic message retained, got %q", s.LastError())
	}
	if wentBack {
		t.Error("go-back continuation must not run on failure")
	}
	// The first attempt already marked the dispute resolved.
	if store.status != StatusResolved {
		t.Fatalf("expected status resolved after failed attempt, got %s", store.status)
	}

	// Resubmission re-runs the idempotent status step and completes the rest.
	store.commentErr = nil
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit: unexpected error: %v", err)
	}
	if s.LastError() != "" {
		t.Errorf("expected error cleared on success, got %q", s.LastError())
	}
	if store.comment != "evidence supports buyer" || store.outcome != OutcomeApproved || store.refund != "1200" {
		t.Fatalf("unexpected final state: %+v", store)
	}
	if !wentBack {
		t.Error("expected go-back continuation after successful resubmit")
	}
}

func TestSession_PartialPassesAmountVerbatim(t *testing.T) {
	store := &fakeStore{}
	lookup := &fakeBidLookup{}
	s := newTestSession(store, lookup, nil)
	s.SetDecision(DecisionPartial)
	s.SetReason("partial delivery")
	s.SetPartialAmount("300")

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.outcome != OutcomePartial || store.refund != "300" {
		t.Fatalf("expected partial/300, got %s/%q", store.outcome, store.refund)
	}
	if lookup.calls != 0 {
		t.Errorf("expected no bid lookup for partial ruling, got %d", lookup.calls)
	}
}

func TestSession_ConfirmationDelayBeforeGoBack(t *testing.T) {
	store := &fakeStore{}
	lookup := &fakeBidLookup{bids: []bid.Bid{{SellerID: "SEL1", Amount: 500}}}

	var slept time.Duration
	order := make([]string, 0, 2)
	rec := Record{ID: "D1", GigID: "G1", SellerID: "SEL1"}
	s := NewReviewSession(rec, NewResolver(lookup), NewOrchestrator(store), func() {
		order = append(order, "back")
	})
	s.WithSleep(func(d time.Duration) {
		slept = d
		order = append(order, "sleep")
	})
	s.SetReason("done")

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != confirmDelay {
		t.Errorf("expected confirmation delay %v, got %v", confirmDelay, slept)
	}
	if !equalCalls(order, []string{"sleep", "back"}) {
		t.Errorf("expected sleep before go-back, got %v", order)
	}
}
