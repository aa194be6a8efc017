package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/usecase"
	"github.com/iho/badbank/internal/usecase/mocks"
)

func newLedgerUseCase(repo *mocks.MockAccountRepository, ledgerRepo *mocks.MockLedgerRepository) *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(
		repo,
		ledgerRepo,
		mocks.NewMockCache(),
		mocks.NewMockRetrier(),
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func seedAccount(t *testing.T, repo *mocks.MockAccountRepository, ledgerRepo *mocks.MockLedgerRepository, email string) *domain.Account {
	t.Helper()

	account := &domain.Account{
		ID:      "acc-" + email,
		Email:   email,
		Name:    "Holder",
		UID:     "u1",
		Roles:   []string{"user"},
		Balance: decimal.Zero,
	}

	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	ledgerRepo.Seed(account)

	return account
}

func TestLedgerUseCase_DepositThenWithdraw(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)
	ctx := context.Background()

	seedAccount(t, repo, ledgerRepo, "alice@x.com")

	account, err := uc.Deposit(ctx, "alice@x.com", decimal.NewFromInt(50), "payday")
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if !account.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected balance 50, got %s", account.Balance)
	}

	if len(account.History) != 1 || account.History[0].Kind != domain.EntryKindDeposit {
		t.Fatalf("expected single deposit entry, got %+v", account.History)
	}

	account, err = uc.Withdraw(ctx, "alice@x.com", decimal.NewFromInt(20), "groceries")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if !account.Balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected balance 30, got %s", account.Balance)
	}

	if len(account.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(account.History))
	}

	if account.History[0].Kind != domain.EntryKindDeposit || account.History[1].Kind != domain.EntryKindWithdrawal {
		t.Errorf("history out of order: %+v", account.History)
	}

	// The invariant the ledger store exists to guarantee.
	sum := decimal.Zero
	for _, entry := range account.History {
		sum = sum.Add(entry.Amount)
	}
	if !account.Balance.Equal(sum) {
		t.Errorf("balance %s diverged from history sum %s", account.Balance, sum)
	}
}

func TestLedgerUseCase_WithdrawRejectsOverdraft(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)
	ctx := context.Background()

	seedAccount(t, repo, ledgerRepo, "bob@x.com")

	if _, err := uc.Withdraw(ctx, "bob@x.com", decimal.NewFromInt(10), "too much"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	account, err := repo.GetByEmail(ctx, "bob@x.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if !account.Balance.Equal(decimal.Zero) || len(account.History) != 0 {
		t.Errorf("rejected withdrawal must leave account untouched, got %+v", account)
	}
}

func TestLedgerUseCase_WithdrawRejectsMalformedEmail(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)

	// A malformed email is a caller mistake, not a lookup miss: it must fail
	// validation before the repository is consulted.
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		t.Fatalf("repository consulted for malformed email %q", email)
		return nil, nil
	}

	_, err := uc.Withdraw(context.Background(), "not-an-email", decimal.NewFromInt(10), "")
	if !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestLedgerUseCase_ApplyChangeValidation(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       usecase.ApplyChangeInput
		expectError error
	}{
		{
			name:        "zero amount rejected",
			input:       usecase.ApplyChangeInput{Email: "alice@x.com", Amount: decimal.Zero, Kind: "adjustment"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "malformed email rejected",
			input:       usecase.ApplyChangeInput{Email: "nope", Amount: decimal.NewFromInt(1), Kind: "adjustment"},
			expectError: domain.ErrInvalidEmail,
		},
		{
			name:        "unknown account surfaces not found",
			input:       usecase.ApplyChangeInput{Email: "ghost@x.com", Amount: decimal.NewFromInt(1), Kind: "adjustment"},
			expectError: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.ApplyChange(ctx, tt.input); !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestLedgerUseCase_NegativeDeltaAllowedByStore(t *testing.T) {
	// The store applies whatever signed delta it is given; only Withdraw
	// enforces the overdraft rule.
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)
	ctx := context.Background()

	seedAccount(t, repo, ledgerRepo, "fees@x.com")

	account, err := uc.ApplyChange(ctx, usecase.ApplyChangeInput{
		Email:  "fees@x.com",
		Amount: decimal.NewFromInt(-15),
		Kind:   "service-fee",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if !account.Balance.Equal(decimal.NewFromInt(-15)) {
		t.Errorf("expected balance -15, got %s", account.Balance)
	}
}

func TestLedgerUseCase_RetriesWriteConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewGomockAccountRepository(ctrl)
	ledgerRepo := mocks.NewGomockLedgerRepository(ctrl)
	cache := mocks.NewGomockCache(ctrl)
	retrier := mocks.NewGomockRetrier(ctrl)
	idGen := mocks.NewGomockIDGenerator(ctrl)

	attempts := 0
	ledgerRepo.EXPECT().ApplyChange(gomock.Any(), "alice@x.com", gomock.Any()).
		DoAndReturn(func(ctx context.Context, email string, entry *domain.LedgerEntry) (*domain.Account, error) {
			attempts++
			if attempts < 3 {
				return nil, domain.ErrWriteConflict
			}
			return &domain.Account{Email: email, Balance: entry.Amount}, nil
		}).Times(3)

	// Drive the operation like the real backoff retrier, without the waits.
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, operation func() error) error {
			var err error
			for range 3 {
				if err = operation(); !errors.Is(err, domain.ErrWriteConflict) {
					return err
				}
			}
			return err
		})

	idGen.EXPECT().Generate().Return("entry-1").Times(3)
	cache.EXPECT().Delete(gomock.Any(), "account:alice@x.com").Return(nil)

	uc := usecase.NewLedgerUseCase(repo, ledgerRepo, cache, retrier, idGen, nil)

	account, err := uc.Deposit(context.Background(), "alice@x.com", decimal.NewFromInt(5), "retry me")
	if err != nil {
		t.Fatalf("expected retried deposit to succeed, got %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	if !account.Balance.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected balance 5, got %s", account.Balance)
	}
}

func TestLedgerUseCase_UnknownOutcomeNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewGomockAccountRepository(ctrl)
	ledgerRepo := mocks.NewGomockLedgerRepository(ctrl)
	cache := mocks.NewGomockCache(ctrl)
	retrier := mocks.NewGomockRetrier(ctrl)
	idGen := mocks.NewGomockIDGenerator(ctrl)

	ledgerRepo.EXPECT().ApplyChange(gomock.Any(), "alice@x.com", gomock.Any()).
		Return(nil, domain.ErrUnknownOutcome)

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, operation func() error) error {
			return operation()
		})

	idGen.EXPECT().Generate().Return("entry-1")

	uc := usecase.NewLedgerUseCase(repo, ledgerRepo, cache, retrier, idGen, nil)

	// The caller must re-read the account before deciding to retry; blindly
	// re-applying the delta could double-apply it.
	_, err := uc.Deposit(context.Background(), "alice@x.com", decimal.NewFromInt(5), "timed out")
	if !errors.Is(err, domain.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}

func TestLedgerUseCase_ListTransactions(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := newLedgerUseCase(repo, ledgerRepo)
	ctx := context.Background()

	seedAccount(t, repo, ledgerRepo, "alice@x.com")

	for i := 1; i <= 3; i++ {
		if _, err := uc.Deposit(ctx, "alice@x.com", decimal.NewFromInt(int64(i)), ""); err != nil {
			t.Fatalf("deposit %d failed: %v", i, err)
		}
	}

	entries, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for i, entry := range entries {
		if !entry.Amount.Equal(decimal.NewFromInt(int64(i + 1))) {
			t.Errorf("entry %d out of order: %s", i, entry.Amount)
		}
	}
}
