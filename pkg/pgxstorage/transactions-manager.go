package pgxstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"

	defaultTransactionAttempts = 3
	defaultRetryBackoff        = 20 * time.Millisecond
)

type txBeginner interface {
	withTransaction(ctx context.Context) (context.Context, pgx.Tx, error)
}

// TransactionsManager runs units of work in read-committed transactions and reruns them
// when postgres aborts one on a serialization failure or a deadlock.
type TransactionsManager struct {
	beginner txBeginner
	attempts int
	backoff  time.Duration
}

func NewTransactionsManager(storage *DBStorage) *TransactionsManager {
	return newTransactionsManager(storage, defaultTransactionAttempts, defaultRetryBackoff)
}

func newTransactionsManager(beginner txBeginner, attempts int, backoff time.Duration) *TransactionsManager {
	if attempts < 1 {
		attempts = 1
	}
	return &TransactionsManager{
		beginner: beginner,
		attempts: attempts,
		backoff:  backoff,
	}
}

// DoWithTransaction runs f in a transaction. A nested call reuses the transaction already
// stored in ctx and is never retried on its own, the outermost call owns the retries.
// f may run more than once, so it must not have side effects outside the transaction.
func (tm *TransactionsManager) DoWithTransaction(
	ctx context.Context,
	f func(ctx context.Context) error,
) error {
	if _, err := getTransaction(ctx); err == nil {
		return f(ctx)
	}
	for attempt := 1; ; attempt++ {
		err := tm.runOnce(ctx, f)
		if err == nil || attempt >= tm.attempts || !IsRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction retry abandoned: %w", err)
		case <-time.After(time.Duration(attempt) * tm.backoff):
		}
	}
}

func (tm *TransactionsManager) runOnce(ctx context.Context, f func(ctx context.Context) error) error {
	ctxWithTransaction, tx, err := tm.beginner.withTransaction(ctx)
	if err != nil {
		return err
	}
	if err = f(ctxWithTransaction); err != nil {
		return rollback(tx, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return rollback(tx, fmt.Errorf("transaction commit failed: %w", err))
	}
	return nil
}

func rollback(tx pgx.Tx, cause error) error {
	err := tx.Rollback(context.Background())
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("transaction rollback failed: %w, rollback caused by %w", err, cause)
	}
	return cause
}

// IsRetryable reports whether err aborted a transaction that may succeed when run again.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
}
