// Package repository selects and opens the configured store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"genius/internal/config"
	"genius/internal/domain/repositories"
	"genius/internal/repository/postgres"
	"genius/internal/repository/schema"
	"genius/internal/repository/sqlite"
)

// Store bundles the repositories of whichever backend is configured.
type Store struct {
	Kind          string // "postgres" or "sqlite"
	APILimits     repositories.APILimitRepository
	Subscriptions repositories.SubscriptionRepository

	ping  func(ctx context.Context) error
	apply func(ctx context.Context) error
	drop  func(ctx context.Context) error
	close func()
}

// Open connects to Postgres when DATABASE_URL is set and to SQLite otherwise.
// The SQLite schema is applied on open; Postgres expects cmd/migrate to have run.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.UsesPostgres() {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: schema.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		pgSchema := postgres.NewSchema(pool, cfg.TablePrefix, logger)
		return &Store{
			Kind:          "postgres",
			APILimits:     postgres.NewAPILimitRepository(repoConfig),
			Subscriptions: postgres.NewSubscriptionRepository(repoConfig),
			ping:          pool.Ping,
			apply:         pgSchema.Apply,
			drop:          pgSchema.Drop,
			close:         pool.Close,
		}, nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.TablePrefix, logger)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Store{
		Kind:          "sqlite",
		APILimits:     sqlite.NewAPILimitRepository(db),
		Subscriptions: sqlite.NewSubscriptionRepository(db),
		ping:          db.Ping,
		apply:         db.Apply,
		drop:          db.Drop,
		close:         func() { _ = db.Close() },
	}, nil
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// ApplySchema creates any missing tables.
func (s *Store) ApplySchema(ctx context.Context) error { return s.apply(ctx) }

// DropTables removes the environment's tables.
func (s *Store) DropTables(ctx context.Context) error { return s.drop(ctx) }

// Close releases the connection pool or database handle.
func (s *Store) Close() { s.close() }
