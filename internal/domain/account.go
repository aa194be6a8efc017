package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account keyed by the owner's email address.
// Balance and History are maintained together by the ledger store: at any
// observable point the balance equals the sum of the amounts in History.
type Account struct {
	ID        string
	Email     string
	Name      string
	UID       string
	Roles     []string
	Balance   decimal.Decimal
	History   []LedgerEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateWithdrawal checks if the account holds enough balance to withdraw
// amount. Overdraft policy is a business rule, not a storage rule, so it
// lives on the aggregate rather than in the repository.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// HasRole reports whether the account carries the given role tag.
// Roles are owned by the authorization layer; this component only stores them.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
