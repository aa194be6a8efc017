package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateEmail    = errors.New("account with this email already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Storage errors
	ErrWriteConflict     = errors.New("concurrent update conflict, retry the operation")
	ErrUnknownOutcome    = errors.New("write outcome unknown, re-read the account before retrying")
	ErrConnectionFailure = errors.New("storage connection failure")
)
