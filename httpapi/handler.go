package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sellerdash/auth"
	"sellerdash/dispute"
	"sellerdash/earnings"
	"sellerdash/payout"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "duplicate_email", err.Error(), requestIDFromContext(r.Context()))
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "weak_password", err.Error(), requestIDFromContext(r.Context()))
		default:
			writeError(w, http.StatusBadRequest, "invalid_registration", err.Error(), requestIDFromContext(r.Context()))
		}
		return
	}
	writeSuccess(w, http.StatusCreated, "", map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "wrong email or password", requestIDFromContext(r.Context()))
			return
		}
		writeError(w, http.StatusInternalServerError, "login_failed", "could not log in", requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"token": result.Token,
		"user": map[string]any{
			"id":        result.User.ID,
			"email":     result.User.Email,
			"full_name": result.User.FullName,
			"role":      result.User.Role,
		},
	})
}

func (h *Handler) earningsOverview(w http.ResponseWriter, r *http.Request) {
	sellerID := userIDFromContext(r.Context())
	out, err := h.earnings.Overview(r.Context(), sellerID, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "overview_failed", "could not load earnings", requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"summary": map[string]any{
			"available_balance": out.Summary.AvailableBalance.Display(),
			"pending_earnings":  out.Summary.PendingEarnings.Display(),
			"total_earned":      out.Summary.TotalEarned.Display(),
		},
		"transactions": transactionsPayload(out.Transactions),
		"wallet": map[string]any{
			"balance":  out.Wallet.Balance,
			"address":  out.Wallet.Address,
			"currency": out.Wallet.Currency,
		},
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	sellerID := userIDFromContext(r.Context())
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	txs, err := h.earnings.Transactions(r.Context(), sellerID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", "could not load transactions", requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"items": transactionsPayload(txs)})
}

type reportRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reportTransaction(w http.ResponseWriter, r *http.Request) {
	sellerID := userIDFromContext(r.Context())
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	rec, err := h.earnings.FileReport(r.Context(), sellerID, chi.URLParam(r, "transaction_id"), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, earnings.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction_not_found", err.Error(), requestIDFromContext(r.Context()))
		case errors.Is(err, earnings.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not_owner", err.Error(), requestIDFromContext(r.Context()))
		case errors.Is(err, earnings.ErrNotDisputable):
			writeError(w, http.StatusBadRequest, "not_disputable", err.Error(), requestIDFromContext(r.Context()))
		default:
			writeError(w, http.StatusBadRequest, "report_rejected", err.Error(), requestIDFromContext(r.Context()))
		}
		return
	}
	writeSuccess(w, http.StatusCreated, "Your dispute has been submitted successfully", disputePayload(rec))
}

func (h *Handler) listDisputes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		records []dispute.Record
		err     error
	)
	if roleFromContext(ctx) == auth.RoleOperator {
		records, err = h.disputes.ReviewQueue(ctx)
	} else {
		records, err = h.disputes.ListForSeller(ctx, userIDFromContext(ctx))
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", "could not load disputes", requestIDFromContext(ctx))
		return
	}
	items := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		items = append(items, disputePayload(rec))
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"items": items})
}

func (h *Handler) getDispute(w http.ResponseWriter, r *http.Request) {
	rec, err := h.disputes.GetByID(r.Context(), chi.URLParam(r, "dispute_id"))
	if err != nil {
		if errors.Is(err, dispute.ErrNotFound) {
			writeError(w, http.StatusNotFound, "dispute_not_found", err.Error(), requestIDFromContext(r.Context()))
			return
		}
		writeError(w, http.StatusInternalServerError, "get_failed", "could not load dispute", requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", disputePayload(rec))
}

type resolutionRequest struct {
	Decision      string `json:"decision"`
	Reason        string `json:"reason"`
	PartialAmount string `json:"partial_amount"`
}

func (h *Handler) resolveDispute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if roleFromContext(ctx) != auth.RoleOperator {
		writeError(w, http.StatusForbidden, "operator_only", "only dispute operators may resolve cases", requestIDFromContext(ctx))
		return
	}
	var req resolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(ctx))
		return
	}

	rec, err := h.disputes.SubmitResolution(ctx, chi.URLParam(r, "dispute_id"), dispute.Decision(req.Decision), req.Reason, req.PartialAmount)
	if err != nil {
		switch {
		case errors.Is(err, dispute.ErrMissingReason),
			errors.Is(err, dispute.ErrMissingPartialAmount),
			errors.Is(err, dispute.ErrUnknownDecision):
			writeError(w, http.StatusBadRequest, "invalid_resolution", err.Error(), requestIDFromContext(ctx))
		case errors.Is(err, dispute.ErrNotFound):
			writeError(w, http.StatusNotFound, "dispute_not_found", err.Error(), requestIDFromContext(ctx))
		default:
			// Resolver and persistence failures collapse into one retryable
			// message; the cause stays server-side.
			writeError(w, http.StatusBadGateway, "resolution_failed", dispute.GenericFailureMessage, requestIDFromContext(ctx))
		}
		return
	}
	writeSuccess(w, http.StatusOK, "Dispute status updated successfully", disputePayload(rec))
}

type bankAccountRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Default       bool   `json:"is_default"`
	Currency      string `json:"currency"`
}

func (h *Handler) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	var items []map[string]any
	_ = h.withAccounts(userIDFromContext(r.Context()), func(acc *payout.Accounts) error {
		for _, a := range acc.List() {
			items = append(items, bankAccountPayload(a))
		}
		return nil
	})
	if items == nil {
		items = []map[string]any{}
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"items": items})
}

func (h *Handler) addBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	var added payout.BankAccount
	err := h.withAccounts(userIDFromContext(r.Context()), func(acc *payout.Accounts) error {
		var err error
		added, err = acc.Add(payout.BankAccount{
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountName:   req.AccountName,
			Default:       req.Default,
			Currency:      payout.Currency(req.Currency),
		})
		return err
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_account", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", bankAccountPayload(added))
}

func (h *Handler) setDefaultBankAccount(w http.ResponseWriter, r *http.Request) {
	err := h.withAccounts(userIDFromContext(r.Context()), func(acc *payout.Accounts) error {
		return acc.SetDefault(chi.URLParam(r, "account_id"))
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "account_not_found", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", nil)
}

func (h *Handler) removeBankAccount(w http.ResponseWriter, r *http.Request) {
	err := h.withAccounts(userIDFromContext(r.Context()), func(acc *payout.Accounts) error {
		return acc.Remove(chi.URLParam(r, "account_id"))
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "account_not_found", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", nil)
}

func transactionsPayload(txs []earnings.Transaction) []map[string]any {
	items := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		item := map[string]any{
			"id":          tx.ID,
			"type":        tx.Kind,
			"status":      tx.Status,
			"description": tx.Description,
			"amount":      tx.Amount.Signed(),
			"date":        tx.OccurredAt.Format("02/01/2006"),
		}
		if tx.Counterparty != nil {
			item["counterparty"] = *tx.Counterparty
		}
		items = append(items, item)
	}
	return items
}

func disputePayload(rec dispute.Record) map[string]any {
	payload := map[string]any{
		"id":          rec.ID,
		"gig_id":      rec.GigID,
		"buyer_id":    rec.BuyerID,
		"seller_id":   rec.SellerID,
		"title":       rec.Title,
		"description": rec.Description,
		"amount":      rec.Amount.Display(),
		"status":      rec.Status,
		"opened_at":   rec.OpenedAt.Format(time.RFC3339),
	}
	if rec.ResolutionComment != nil {
		payload["resolution_comment"] = *rec.ResolutionComment
	}
	if rec.Outcome != nil {
		payload["outcome"] = *rec.Outcome
	}
	if rec.RefundAmount != nil {
		payload["refund_amount"] = *rec.RefundAmount
	}
	return payload
}

func bankAccountPayload(a payout.BankAccount) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"bank_name":      a.BankName,
		"account_number": a.AccountNumber,
		"account_name":   a.AccountName,
		"is_default":     a.Default,
		"currency":       a.Currency,
	}
}
