package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	cacheTTL    time.Duration
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	cacheTTL time.Duration,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
		cacheTTL:    cacheTTL,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name  string
	Email string
	UID   string
	Roles []string
}

// CreateAccount creates a new account with a zero balance and empty history.
// Email uniqueness is enforced by the store, not checked here: a prior read
// would race with concurrent creations of the same email.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidateUID(input.UID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Email:     input.Email,
		Name:      input.Name,
		UID:       input.UID,
		Roles:     input.Roles,
		Balance:   decimal.Zero,
		History:   []domain.LedgerEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.Email)

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account with its full transaction history.
func (uc *AccountUseCase) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("get").Inc()
	}

	if cached, err := uc.cache.Get(ctx, accountCacheKey(email)); err == nil && cached != "" {
		var account domain.Account
		if err := json.Unmarshal([]byte(cached), &account); err == nil {
			return &account, nil
		}
	}

	// One snapshot read. Fetching the row and the history separately would
	// let a change commit in between, and the torn result would then sit in
	// the cache for the full TTL.
	account, err := uc.ledgerRepo.GetWithHistory(ctx, email)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(account); err == nil {
		// Best effort: a cache failure must not fail the read.
		_ = uc.cache.Set(ctx, accountCacheKey(email), string(data), uc.cacheTTL)
	}

	return account, nil
}

// ListAccounts lists every account in insertion order, without histories.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("list").Inc()
	}

	return uc.accountRepo.List(ctx)
}

func (uc *AccountUseCase) invalidate(ctx context.Context, email string) {
	_ = uc.cache.Delete(ctx, accountCacheKey(email))
}

func accountCacheKey(email string) string {
	return "account:" + email
}
