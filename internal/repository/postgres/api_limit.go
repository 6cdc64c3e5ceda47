package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
	"genius/internal/repository/schema"
)

// PostgresAPILimitRepository implements the APILimitRepository interface
type PostgresAPILimitRepository struct {
	pool   *pgxpool.Pool
	tables *schema.TableNames
	logger *slog.Logger
}

// NewAPILimitRepository creates a new PostgresAPILimitRepository
func NewAPILimitRepository(config *RepositoryConfig) repositories.APILimitRepository {
	return &PostgresAPILimitRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves the usage counter for a user
func (r *PostgresAPILimitRepository) GetByUserID(ctx context.Context, userID string) (*models.UserAPILimit, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, count, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.APILimits)

	var limit models.UserAPILimit
	db := executor(ctx, r.pool)
	err := db.QueryRow(ctx, query, userID).Scan(
		&limit.ID,
		&limit.UserID,
		&limit.Count,
		&limit.CreatedAt,
		&limit.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api limit: %w", err)
	}

	return &limit, nil
}

// Increment adds one to the user's counter in a single upsert
func (r *PostgresAPILimitRepository) Increment(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, user_id, count, created_at, updated_at)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			count = %[1]s.count + 1,
			updated_at = NOW()
	`, r.tables.APILimits)

	db := executor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, uuid.NewString(), userID); err != nil {
		return fmt.Errorf("increment api limit: %w", err)
	}

	return nil
}
