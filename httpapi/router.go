package httpapi

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"sellerdash/auth"
	"sellerdash/dispute"
	"sellerdash/earnings"
	"sellerdash/payout"
)

// AuthService is the authentication surface the handlers need.
type AuthService interface {
	TokenVerifier
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
}

// DisputeService is the dispute surface the handlers need.
type DisputeService interface {
	ListForSeller(ctx context.Context, sellerID string) ([]dispute.Record, error)
	ReviewQueue(ctx context.Context) ([]dispute.Record, error)
	GetByID(ctx context.Context, disputeID string) (dispute.Record, error)
	SubmitResolution(ctx context.Context, disputeID string, decision dispute.Decision, reason, partialAmount string) (dispute.Record, error)
}

// EarningsService is the earnings surface the handlers need.
type EarningsService interface {
	Overview(ctx context.Context, sellerID string, txLimit int) (earnings.Overview, error)
	Transactions(ctx context.Context, sellerID string, limit int) ([]earnings.Transaction, error)
	FileReport(ctx context.Context, sellerID, txID, reason string) (dispute.Record, error)
}

// Handler carries the services behind the HTTP surface. Bank accounts are
// per-seller screen state held in memory.
type Handler struct {
	auth     AuthService
	disputes DisputeService
	earnings EarningsService

	mu       sync.Mutex
	accounts map[string]*payout.Accounts
}

// NewHandler wires the HTTP handler.
func NewHandler(authSvc AuthService, disputes DisputeService, earningsSvc EarningsService) *Handler {
	return &Handler{
		auth:     authSvc,
		disputes: disputes,
		earnings: earningsSvc,
		accounts: make(map[string]*payout.Accounts),
	}
}

// NewRouter builds the chi router over the handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(h.auth))

			r.Get("/earnings", h.earningsOverview)
			r.Get("/earnings/transactions", h.listTransactions)
			r.Post("/earnings/transactions/{transaction_id}/report", h.reportTransaction)

			r.Get("/disputes", h.listDisputes)
			r.Get("/disputes/{dispute_id}", h.getDispute)
			r.Post("/disputes/{dispute_id}/resolution", h.resolveDispute)

			r.Get("/bank-accounts", h.listBankAccounts)
			r.Post("/bank-accounts", h.addBankAccount)
			r.Post("/bank-accounts/{account_id}/default", h.setDefaultBankAccount)
			r.Delete("/bank-accounts/{account_id}", h.removeBankAccount)
		})
	})
	return r
}

// withAccounts runs fn against the seller's bank-account collection under the
// handler lock, creating the collection on first use.
func (h *Handler) withAccounts(sellerID string, fn func(*payout.Accounts) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	acc, ok := h.accounts[sellerID]
	if !ok {
		acc = payout.NewAccounts()
		h.accounts[sellerID] = acc
	}
	return fn(acc)
}
