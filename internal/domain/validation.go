package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidUID         = errors.New("invalid uid")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxAmount            = "1000000000000" // 1 trillion
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an account lookup key. Lookups are exact-match:
// no trimming or case-folding is applied, a malformed key is rejected.
func ValidateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateAccountName validates a display name.
func ValidateAccountName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < MinAccountNameLength || len(trimmed) > MaxAccountNameLength {
		return ErrInvalidAccountName
	}
	return nil
}

// ValidateUID validates the creating principal's identifier.
func ValidateUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return ErrInvalidUID
	}
	return nil
}

// ValidateAmount validates a transaction amount as supplied by a caller.
// Amounts are always submitted positive; the ledger layer decides the sign.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return ErrAmountTooLarge
	}

	return nil
}
