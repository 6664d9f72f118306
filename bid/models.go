package bid

import (
	"time"

	"sellerdash/money"
)

// Bid is a seller's priced offer on a gig. The accepted bid's amount is
// treated as the authoritative transaction price.
type Bid struct {
	ID        string
	GigID     string
	SellerID  string
	Amount    money.Amount
	CreatedAt time.Time
}
