package dispute

import (
	"time"

	"sellerdash/money"
)

// Status represents the lifecycle of a dispute record.
type Status string

const (
	StatusUnderReview Status = "under_review"
	StatusResolved    Status = "resolved"
)

// Outcome is the persisted classification of a resolved dispute.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
	OutcomePartial  Outcome = "partial"
)

// Decision is the operator's ruling on a dispute under review. It is not
// persisted directly; it determines the outcome and refund amount.
type Decision string

const (
	FavorBuyer      Decision = "favor_buyer"
	FavorSeller     Decision = "favor_seller"
	DecisionPartial Decision = "partial"
)

// Record mirrors the disputes table.
type Record struct {
	ID                string
	GigID             string
	BuyerID           string
	SellerID          string
	Title             string
	Description       string
	Amount            money.Amount
	Status            Status
	ResolutionComment *string
	Outcome           *Outcome
	RefundAmount      *string
	OpenedAt          time.Time
	UpdatedAt         time.Time
	ResolvedAt        *time.Time
}
