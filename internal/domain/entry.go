package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry kinds used by the banking layer. The store itself treats Kind as
// opaque free-form text.
const (
	EntryKindDeposit    = "deposit"
	EntryKindWithdrawal = "withdrawal"
)

// LedgerEntry represents one balance-changing event in an account's history.
// Entries are append-only: they are never updated, reordered or deleted.
type LedgerEntry struct {
	ID           string
	AccountEmail string
	Amount       decimal.Decimal
	Kind         string
	Description  string
	CreatedAt    time.Time
}
