package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/adapter/http/dto"
	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error)
	Withdraw(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error)
}

// LedgerHandler handles deposit, withdrawal and history HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Deposit credits an amount to an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing account email", "")
		return
	}

	var req dto.LedgerChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledgerUC.Deposit(r.Context(), email, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Withdraw debits an amount from an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing account email", "")
		return
	}

	var req dto.LedgerChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledgerUC.Withdraw(r.Context(), email, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListTransactions lists ledger entries for an account.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing account email", "")
		return
	}

	entries, err := h.ledgerUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		Email:  email,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
