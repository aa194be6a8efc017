package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/adapter/repository/postgres"
	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/usecase"
	"github.com/iho/badbank/internal/usecase/mocks"
	"github.com/iho/badbank/tests/testutil"
)

func TestAccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	accountRepo := postgres.NewAccountRepository(testDB.Pool)
	ledgerRepo := postgres.NewLedgerRepository(testDB.Pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	accountUC := usecase.NewAccountUseCase(accountRepo, ledgerRepo, mocks.NewMockCache(), idGen, nil, 0)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, ledgerRepo, mocks.NewMockCache(), retrier, idGen, nil)

	testDB.TruncateAll(ctx)

	created, err := accountUC.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:  "Alice",
		Email: "alice@example.com",
		UID:   "uid-1",
		Roles: []string{"customer"},
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	if !created.Balance.IsZero() || len(created.History) != 0 {
		t.Fatalf("new account must start with zero balance and empty history: %+v", created)
	}

	// Second create with the same email must fail, regardless of other fields.
	if _, err := accountUC.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:  "Impostor",
		Email: "alice@example.com",
		UID:   "uid-99",
	}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := ledgerUC.Deposit(ctx, "alice@example.com", decimal.NewFromInt(50), "payday"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	account, err := ledgerUC.Withdraw(ctx, "alice@example.com", decimal.NewFromInt(20), "groceries")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if !account.Balance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected balance 30, got %s", account.Balance)
	}

	// Withdrawing more than the balance must be rejected.
	if _, err := ledgerUC.Withdraw(ctx, "alice@example.com", decimal.NewFromInt(100), "too much"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	fetched, err := accountUC.GetAccount(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to get account: %v", err)
	}

	if len(fetched.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(fetched.History))
	}

	if !fetched.History[0].Amount.Equal(decimal.NewFromInt(50)) || !fetched.History[1].Amount.Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("history not in insertion order: %+v", fetched.History)
	}

	accounts, err := accountUC.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("failed to list accounts: %v", err)
	}

	if len(accounts) != 1 || accounts[0].Email != "alice@example.com" {
		t.Fatalf("unexpected account list: %+v", accounts)
	}

	if _, err := accountUC.GetAccount(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
