package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	UID   string   `json:"uid"`
	Roles []string `json:"roles,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:  r.Name,
		Email: r.Email,
		UID:   r.UID,
		Roles: r.Roles,
	}
}

// LedgerChangeRequest represents a deposit or withdrawal request. Amount is
// always positive; the route decides the sign.
type LedgerChangeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
