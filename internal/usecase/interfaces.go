package usecase

import (
	"context"
	"time"

	"github.com/iho/badbank/internal/domain"
)

// AccountRepository defines read and create access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// LedgerRepository defines the atomic ledger executor and history reads.
type LedgerRepository interface {
	// ApplyChange atomically increments the account balance by entry.Amount
	// and appends entry to the account history, as one unit of work. It
	// returns the account as stored after the change.
	ApplyChange(ctx context.Context, email string, entry *domain.LedgerEntry) (*domain.Account, error)
	// GetWithHistory reads the account and its full history on a single
	// snapshot, so the returned balance always equals the history sum.
	GetWithHistory(ctx context.Context, email string) (*domain.Account, error)
	ListByAccount(ctx context.Context, email string, limit, offset int) ([]*domain.LedgerEntry, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on retryable storage conflicts. The ledger
// store itself never retries: whether re-applying a delta is safe is a
// business-layer decision, so the policy lives up here.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyProcessing is the placeholder an IdempotencyStore holds between
// claiming a key and storing the final response. A reader seeing it knows the
// original request is still in flight.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
