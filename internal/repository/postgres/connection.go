package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"genius/internal/config"
	"genius/internal/repository/schema"
)

// pgBouncerPort is the Supabase transaction pooler port. PgBouncer in
// transaction mode cannot hold prepared statements.
const pgBouncerPort = 6543

// RepositoryConfig is shared by the Postgres repositories.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *schema.TableNames
	Logger *slog.Logger
}

// CreateConnectionPool opens a pool sized by config.DBMaxConns and pings it.
// On the pooler port the exec mode drops to cache_describe unless the URL
// already chose one.
func CreateConnectionPool(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = config.DBMaxConns
	poolConfig.MinConns = config.DBMinConns

	conn := poolConfig.ConnConfig
	if conn.Port == pgBouncerPort && conn.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		conn.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		logger.Debug("using cache_describe exec mode for pooler", "port", conn.Port)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("postgres pool ready", "host", conn.Host, "database", conn.Database, "max_conns", poolConfig.MaxConns)
	return pool, nil
}
