package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/adapter/http/dto"
	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/usecase"
)

type ledgerServiceStub struct {
	depositFn  func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error)
	withdrawFn func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error)
	listFn     func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error)
}

func (s *ledgerServiceStub) Deposit(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
	return s.depositFn(ctx, email, amount, description)
}

func (s *ledgerServiceStub) Withdraw(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
	return s.withdrawFn(ctx, email, amount, description)
}

func (s *ledgerServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
	return s.listFn(ctx, input)
}

func TestLedgerHandler_Deposit_Success(t *testing.T) {
	account := &domain.Account{
		ID:      "acc-1",
		Email:   "alice@example.com",
		Balance: decimal.RequireFromString("50"),
	}

	handler := NewLedgerHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			if email != "alice@example.com" || !amount.Equal(decimal.NewFromInt(50)) {
				t.Fatalf("unexpected deposit args: %s %s", email, amount)
			}
			return account, nil
		},
		withdrawFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.LedgerChangeRequest{Amount: decimal.NewFromInt(50), Description: "payday"})
	req := httptest.NewRequest(http.MethodPost, "/accounts/alice@example.com/deposit", bytes.NewReader(body))
	req = setChiURLParam(req, "email", "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected balance 50, got %s", resp.Balance)
	}
}

func TestLedgerHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, domain.ErrInsufficientFunds
		},
		depositFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.LedgerChangeRequest{Amount: decimal.NewFromInt(100)})
	req := httptest.NewRequest(http.MethodPost, "/accounts/alice@example.com/withdraw", bytes.NewReader(body))
	req = setChiURLParam(req, "email", "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestLedgerHandler_Withdraw_UnknownOutcome(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, domain.ErrUnknownOutcome
		},
		depositFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.LedgerChangeRequest{Amount: decimal.NewFromInt(10)})
	req := httptest.NewRequest(http.MethodPost, "/accounts/alice@example.com/withdraw", bytes.NewReader(body))
	req = setChiURLParam(req, "email", "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestLedgerHandler_Deposit_InvalidJSON(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			t.Fatal("Deposit should not be called for invalid payload")
			return nil, nil
		},
		withdrawFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/alice@example.com/deposit", bytes.NewBufferString("{bad"))
	req = setChiURLParam(req, "email", "alice@example.com")
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_ListTransactions(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.LedgerEntry, error) {
			if input.Limit != 5 || input.Offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got %+v", input)
			}
			return []*domain.LedgerEntry{
				{ID: "e-1", AccountEmail: input.Email, Amount: decimal.NewFromInt(50), Kind: domain.EntryKindDeposit},
				{ID: "e-2", AccountEmail: input.Email, Amount: decimal.NewFromInt(-20), Kind: domain.EntryKindWithdrawal},
			}, nil
		},
		depositFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
		withdrawFn: func(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/alice@example.com/transactions?limit=5&offset=2", nil)
	req = setChiURLParam(req, "email", "alice@example.com")
	rec := httptest.NewRecorder()

	handler.ListTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Total != 2 {
		t.Fatalf("expected 2 entries, got %+v", resp)
	}
}
