package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/badbank/internal/domain"
)

// PostgreSQL error codes this store cares about.
const (
	pgErrUniqueViolation      = "23505"
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
)

// classifyError maps engine errors raised before commit onto the store's
// error kinds. At this point nothing is durable, so a timeout here is a
// plain failure, not an unknown outcome.
func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock:
			return fmt.Errorf("%w: %v", domain.ErrWriteConflict, err)
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %v", domain.ErrDuplicateEmail, err)
		}
	}

	if isTransportError(err) {
		return fmt.Errorf("%w: %v", domain.ErrConnectionFailure, err)
	}

	return err
}

// classifyCommitError maps errors raised by COMMIT itself. A serialization
// failure means the engine aborted the transaction, so nothing was applied
// and the caller may retry. Anything else leaves the commit status
// indeterminate: the server may have committed before the response was lost.
func classifyCommitError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock:
			return fmt.Errorf("%w: %v", domain.ErrWriteConflict, err)
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrUnknownOutcome, err)
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
