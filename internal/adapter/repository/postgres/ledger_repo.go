package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/badbank/internal/domain"
	"github.com/iho/badbank/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. ApplyChange is the
// single writer of balances: the balance column and the history table only
// ever change together, inside one transaction.
type LedgerRepository struct {
	pool      queryPool
	txManager usecase.TransactionManager
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithPool(pool)
}

func newLedgerRepositoryWithPool(pool queryPool) *LedgerRepository {
	return &LedgerRepository{
		pool:      pool,
		txManager: newTxManagerWithPool(pool),
	}
}

// ApplyChange increments the account balance by entry.Amount and appends
// entry to the history as one unit of work. The row lock taken by
// FOR UPDATE serializes concurrent changes to the same account, so the
// final balance is the sum of all applied deltas in the same total order
// the history records. On any error before commit the deferred rollback
// leaves the account exactly as it was.
func (r *LedgerRepository) ApplyChange(ctx context.Context, email string, entry *domain.LedgerEntry) (*domain.Account, error) {
	tx, err := r.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	pgxTx := tx.(*Tx).PgxTx()

	lockQuery := `
		SELECT id, email, name, uid, roles, created_at
		FROM accounts
		WHERE email = $1
		FOR UPDATE
	`

	var account domain.Account

	err = pgxTx.QueryRow(ctx, lockQuery, email).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.UID,
		&account.Roles,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, classifyError(err)
	}

	insertQuery := `
		INSERT INTO ledger_entries (id, account_email, amount, kind, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = pgxTx.Exec(ctx, insertQuery,
		entry.ID,
		email,
		decimalToNumeric(entry.Amount),
		entry.Kind,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return nil, classifyError(err)
	}

	updateQuery := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE email = $1
		RETURNING balance
	`

	var balance pgtype.Numeric

	err = pgxTx.QueryRow(ctx, updateQuery, email, decimalToNumeric(entry.Amount), entry.CreatedAt).Scan(&balance)
	if err != nil {
		return nil, classifyError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		// The commit response never arrived: the change may or may not be
		// durable. The caller must re-read before retrying.
		return nil, classifyCommitError(err)
	}

	account.Balance = numericToDecimal(balance)
	account.UpdatedAt = entry.CreatedAt

	return &account, nil
}

// GetWithHistory returns the account together with its full history, read
// on a single repeatable-read snapshot. Reading the row and the history with
// separate statements outside a transaction would let a concurrent
// ApplyChange commit in between, producing a balance that disagrees with the
// history sum.
func (r *LedgerRepository) GetWithHistory(ctx context.Context, email string) (*domain.Account, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailure, err)
	}
	defer tx.Rollback(ctx)

	accountQuery := `
		SELECT id, email, name, uid, roles, balance, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	account, err := scanAccount(tx.QueryRow(ctx, accountQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, classifyError(err)
	}

	rows, err := tx.Query(ctx, historyQuery, email)
	if err != nil {
		return nil, classifyError(err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyError(err)
	}

	account.History = make([]domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		account.History = append(account.History, *entry)
	}

	return account, nil
}

const historyQuery = `
		SELECT id, account_email, amount, kind, description, created_at
		FROM ledger_entries
		WHERE account_email = $1
		ORDER BY id
	`

// ListByAccount returns history entries for an account in insertion order.
// A non-positive limit returns the full history.
func (r *LedgerRepository) ListByAccount(ctx context.Context, email string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := historyQuery
	args := []any{email}

	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyError(err)
	}

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []*domain.LedgerEntry

	for rows.Next() {
		var (
			entry  domain.LedgerEntry
			amount pgtype.Numeric
		)

		err := rows.Scan(
			&entry.ID,
			&entry.AccountEmail,
			&amount,
			&entry.Kind,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Amount = numericToDecimal(amount)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	return entries, nil
}
