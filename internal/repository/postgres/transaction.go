package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"genius/internal/domain/repositories"
)

// txManager runs units of work in one pgx transaction. Repositories pick the
// transaction up from the context through executor.
type txManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager returns a TransactionManager backed by pool.
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &txManager{pool: pool, logger: logger}
}

func (m *txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// ErrTxClosed means the commit already went through
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			m.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(repositories.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// executor returns the context's transaction, or pool outside one.
func executor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
