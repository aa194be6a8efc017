package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/infrastructure/metrics"
)

// LedgerUseCase orchestrates balance-changing operations. The store applies
// whatever signed delta it is given; overdraft checks and the
// retry-on-conflict policy live here, on the business side of the boundary.
type LedgerUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	cache       Cache
	retrier     Retrier
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	cache Cache,
	retrier Retrier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// ApplyChangeInput represents input for a generic ledger change.
type ApplyChangeInput struct {
	Email       string
	Amount      decimal.Decimal
	Kind        string
	Description string
}

// Deposit credits amount to the account identified by email.
func (uc *LedgerUseCase) Deposit(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return uc.ApplyChange(ctx, ApplyChangeInput{
		Email:       email,
		Amount:      amount,
		Kind:        domain.EntryKindDeposit,
		Description: description,
	})
}

// Withdraw debits amount from the account identified by email. The overdraft
// check reads the current balance first; the row lock inside the store
// serializes racing withdrawals, so the check is a business guard rather than
// a consistency mechanism.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, email string, amount decimal.Decimal, description string) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	// Input validation comes before any store access: a malformed email is
	// ErrInvalidEmail, not ErrAccountNotFound.
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateWithdrawal(amount); err != nil {
		return nil, err
	}

	return uc.ApplyChange(ctx, ApplyChangeInput{
		Email:       email,
		Amount:      amount.Neg(),
		Kind:        domain.EntryKindWithdrawal,
		Description: description,
	})
}

// ApplyChange applies a signed balance delta and appends the matching
// history entry as one atomic unit. ErrWriteConflict is retried with
// backoff; every other error, including ErrUnknownOutcome, surfaces to the
// caller unmodified.
func (uc *LedgerUseCase) ApplyChange(ctx context.Context, input ApplyChangeInput) (*domain.Account, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	start := time.Now()

	var account *domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		entry := &domain.LedgerEntry{
			ID:           uc.idGen.Generate(),
			AccountEmail: input.Email,
			Amount:       input.Amount,
			Kind:         input.Kind,
			Description:  input.Description,
			CreatedAt:    time.Now().UTC(),
		}

		var applyErr error
		account, applyErr = uc.ledgerRepo.ApplyChange(ctx, input.Email, entry)
		return applyErr
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.LedgerChangeErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		return nil, err
	}

	uc.invalidate(ctx, input.Email)

	if uc.metrics != nil {
		uc.metrics.LedgerChangesApplied.WithLabelValues(input.Kind).Inc()
		uc.metrics.LedgerChangeDuration.Observe(time.Since(start).Seconds())
		uc.metrics.LedgerChangeAmount.Observe(input.Amount.Abs().InexactFloat64())
	}

	return account, nil
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWriteConflict):
		return "write_conflict"
	case errors.Is(err, domain.ErrUnknownOutcome):
		return "unknown_outcome"
	case errors.Is(err, domain.ErrConnectionFailure):
		return "connection_failure"
	default:
		return "other"
	}
}

// ListTransactionsInput represents input for listing history entries.
type ListTransactionsInput struct {
	Email  string
	Limit  int
	Offset int
}

// ListTransactions lists history entries for an account in insertion order.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.LedgerEntry, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 500 {
		input.Limit = 500
	}

	return uc.ledgerRepo.ListByAccount(ctx, input.Email, input.Limit, input.Offset)
}

func (uc *LedgerUseCase) invalidate(ctx context.Context, email string) {
	_ = uc.cache.Delete(ctx, accountCacheKey(email))
}
