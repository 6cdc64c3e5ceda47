package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"genius/internal/domain/repositories"
	"genius/internal/repository/schema"
)

//go:embed schema.sql
var schemaSQL string

// Schema creates and drops the prefixed tables.
type Schema struct {
	pool   *pgxpool.Pool
	tables *schema.TableNames
	prefix string
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewSchema creates a schema manager for the given prefix
func NewSchema(pool *pgxpool.Pool, prefix string, logger *slog.Logger) *Schema {
	return &Schema{
		pool:   pool,
		tables: schema.NewTableNames(prefix),
		prefix: prefix,
		tx:     NewTransactionManager(pool, logger),
		logger: logger,
	}
}

// Apply creates any missing tables in one transaction.
func (s *Schema) Apply(ctx context.Context) error {
	return s.tx.ExecTx(ctx, func(ctx context.Context) error {
		db := executor(ctx, s.pool)
		for _, stmt := range schema.Statements(schemaSQL, s.prefix) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		s.logger.Info("schema applied", "store", "postgres", "prefix", s.prefix)
		return nil
	})
}

// Drop removes the prefixed tables.
func (s *Schema) Drop(ctx context.Context) error {
	return s.tx.ExecTx(ctx, func(ctx context.Context) error {
		db := executor(ctx, s.pool)
		for _, table := range s.tables.DropOrder() {
			if _, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
			s.logger.Info("dropped table", "table", table)
		}
		return nil
	})
}
