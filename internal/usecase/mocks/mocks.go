package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iho/badbank/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByEmailFunc func(ctx context.Context, email string) (*domain.Account, error)
	ListFunc       func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	m.accounts[account.Email] = account
	return nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[email]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository. The
// default behavior keeps balance and history in lockstep, like the real store.
type MockLedgerRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	ApplyChangeFunc    func(ctx context.Context, email string, entry *domain.LedgerEntry) (*domain.Account, error)
	GetWithHistoryFunc func(ctx context.Context, email string) (*domain.Account, error)
	ListByAccountFunc  func(ctx context.Context, email string, limit, offset int) ([]*domain.LedgerEntry, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed installs an account so ApplyChange can find it.
func (m *MockLedgerRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Email] = account
}

func (m *MockLedgerRepository) ApplyChange(ctx context.Context, email string, entry *domain.LedgerEntry) (*domain.Account, error) {
	if m.ApplyChangeFunc != nil {
		return m.ApplyChangeFunc(ctx, email, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	acc.Balance = acc.Balance.Add(entry.Amount)
	acc.History = append(acc.History, *entry)
	acc.UpdatedAt = entry.CreatedAt
	return acc, nil
}

// GetWithHistory returns a copy of the account under the same lock
// ApplyChange holds, so the balance and history are always from one state.
func (m *MockLedgerRepository) GetWithHistory(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetWithHistoryFunc != nil {
		return m.GetWithHistoryFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	snapshot := *acc
	snapshot.History = make([]domain.LedgerEntry, len(acc.History))
	copy(snapshot.History, acc.History)
	return &snapshot, nil
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, email string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, email, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[email]
	if !ok {
		return nil, nil
	}
	entries := make([]*domain.LedgerEntry, 0, len(acc.History))
	for i := range acc.History {
		entries = append(entries, &acc.History[i])
	}
	return entries, nil
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// once without backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}
