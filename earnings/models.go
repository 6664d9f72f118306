package earnings

import (
	"time"

	"sellerdash/money"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindPayment    Kind = "payment"
	KindWithdrawal Kind = "withdrawal"
)

// TxStatus is the settlement state of a transaction.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxSettled TxStatus = "settled"
)

// Transaction mirrors the transactions table. Amount is signed: payments are
// positive, withdrawals negative.
type Transaction struct {
	ID           string
	SellerID     string
	GigID        *string
	BuyerID      *string
	Kind         Kind
	Status       TxStatus
	Description  string
	Counterparty *string
	Amount       money.Amount
	OccurredAt   time.Time
}

// Summary is the headline card data on the earnings screen.
type Summary struct {
	AvailableBalance money.Amount
	PendingEarnings  money.Amount
	TotalEarned      money.Amount
}

// Wallet is the crypto wallet display record.
type Wallet struct {
	SellerID string
	Balance  string
	Address  string
	Currency string
}

// Overview bundles everything the earnings screen renders.
type Overview struct {
	Summary      Summary
	Transactions []Transaction
	Wallet       Wallet
}
