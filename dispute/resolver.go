package dispute

import (
	"context"
	"errors"
	"fmt"

	"sellerdash/bid"
)

var (
	// ErrSellerBidNotFound signals a buyer-favored ruling where no bid on the
	// gig belongs to the dispute's seller, so the refund cannot be computed.
	ErrSellerBidNotFound = errors.New("dispute: seller bid not found")
	// ErrUnknownDecision signals a decision value outside the three rulings.
	ErrUnknownDecision = errors.New("dispute: unknown decision")
)

// BidLookup finds the bids placed on a gig.
type BidLookup interface {
	BidsForGig(ctx context.Context, gigID string) ([]bid.Bid, error)
}

// Resolution is the derived outcome of a ruling. RefundAmount keeps the
// textual contract of the dispute store; partial refunds pass through as the
// operator entered them.
type Resolution struct {
	Outcome      Outcome
	RefundAmount string
}

// Resolver maps an operator's decision to the outcome and refund amount that
// get persisted.
type Resolver struct {
	bids BidLookup
}

// NewResolver builds a Resolver using the provided bid lookup.
func NewResolver(bids BidLookup) *Resolver {
	return &Resolver{bids: bids}
}

// Resolve derives the outcome and refund for a decision. Favoring the seller
// denies the claim with no refund and performs no lookup. Favoring the buyer
// refunds the full price the seller actually bid on the gig, which requires
// finding the seller's bid; the disputed amount shown on the record may be
// stale or display-only and is never used. A partial ruling passes the
// operator-entered amount through verbatim.
func (r *Resolver) Resolve(ctx context.Context, decision Decision, gigID, sellerID, partialAmount string) (Resolution, error) {
	switch decision {
	case FavorSeller:
		return Resolution{Outcome: OutcomeDenied, RefundAmount: "0"}, nil

	case FavorBuyer:
		bids, err := r.bids.BidsForGig(ctx, gigID)
		if err != nil {
			return Resolution{}, fmt.Errorf("dispute: fetch bids for gig %s: %w", gigID, err)
		}
		for _, b := range bids {
			if b.SellerID == sellerID {
				return Resolution{Outcome: OutcomeApproved, RefundAmount: b.Amount.String()}, nil
			}
		}
		return Resolution{}, ErrSellerBidNotFound

	case DecisionPartial:
		return Resolution{Outcome: OutcomePartial, RefundAmount: partialAmount}, nil

	default:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownDecision, decision)
	}
}
