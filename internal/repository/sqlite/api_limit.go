package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
)

// APILimitRepository implements repositories.APILimitRepository on SQLite.
type APILimitRepository struct {
	store *Store
}

// NewAPILimitRepository creates a usage counter repository backed by store.
func NewAPILimitRepository(store *Store) repositories.APILimitRepository {
	return &APILimitRepository{store: store}
}

func (r *APILimitRepository) GetByUserID(ctx context.Context, userID string) (*models.UserAPILimit, error) {
	query := fmt.Sprintf(`
SELECT id, user_id, count, created_at_unix_ms, updated_at_unix_ms
FROM %s
WHERE user_id = ?
`, r.store.tables.APILimits)

	var limit models.UserAPILimit
	var created, updated int64
	err := r.store.db.QueryRowContext(ctx, query, userID).Scan(
		&limit.ID,
		&limit.UserID,
		&limit.Count,
		&created,
		&updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api limit: %w", err)
	}

	limit.CreatedAt = fromMs(created)
	limit.UpdatedAt = fromMs(updated)
	return &limit, nil
}

func (r *APILimitRepository) Increment(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
INSERT INTO %s (id, user_id, count, created_at_unix_ms, updated_at_unix_ms)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	count = count + 1,
	updated_at_unix_ms = excluded.updated_at_unix_ms
`, r.store.tables.APILimits)

	now := r.store.nowMs()
	if _, err := r.store.db.ExecContext(ctx, query, uuid.NewString(), userID, now, now); err != nil {
		return fmt.Errorf("increment api limit: %w", err)
	}
	return nil
}
