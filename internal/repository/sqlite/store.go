package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"genius/internal/repository/schema"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a single-process SQLite database holding the prefixed tables.
// Used for local development when DATABASE_URL is unset.
type Store struct {
	db     *sql.DB
	tables *schema.TableNames
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path, prefix string, logger *slog.Logger) (*Store, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("missing sqlite path")
	}
	if p != MemoryPath {
		p = filepath.Clean(p)
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: SQLite serialises writers and :memory: is per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:     db,
		tables: schema.NewTableNames(prefix),
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
	if err := s.Apply(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Apply creates any missing tables.
func (s *Store) Apply(ctx context.Context) error {
	for _, stmt := range schema.Statements(schemaSQL, s.prefix) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	s.logger.Debug("schema applied", "store", "sqlite", "prefix", s.prefix)
	return nil
}

// Drop removes the prefixed tables.
func (s *Store) Drop(ctx context.Context) error {
	for _, table := range s.tables.DropOrder() {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		s.logger.Info("dropped table", "table", table)
	}
	return nil
}

func (s *Store) nowMs() int64 {
	return s.now().UnixMilli()
}

func fromMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
