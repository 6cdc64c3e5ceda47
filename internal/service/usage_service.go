package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
	"genius/internal/domain/services"
)

// UsageService implements the UsageService interface
type UsageService struct {
	limitRepo     repositories.APILimitRepository
	subRepo       repositories.SubscriptionRepository
	maxFreeCounts int
	now           func() time.Time
	logger        *slog.Logger
}

// NewUsageService creates a new usage service
func NewUsageService(
	limitRepo repositories.APILimitRepository,
	subRepo repositories.SubscriptionRepository,
	maxFreeCounts int,
	logger *slog.Logger,
) services.UsageService {
	return &UsageService{
		limitRepo:     limitRepo,
		subRepo:       subRepo,
		maxFreeCounts: maxFreeCounts,
		now:           time.Now,
		logger:        logger,
	}
}

// CheckAPILimit returns true while the user's count is below the free allowance
func (s *UsageService) CheckAPILimit(ctx context.Context, userID string) (bool, error) {
	count, err := s.count(ctx, userID)
	if err != nil {
		return false, err
	}
	return count < s.maxFreeCounts, nil
}

// IncreaseAPILimit records one successful free generation
func (s *UsageService) IncreaseAPILimit(ctx context.Context, userID string) error {
	if err := s.limitRepo.Increment(ctx, userID); err != nil {
		return fmt.Errorf("increment api limit: %w", err)
	}
	s.logger.Debug("api limit increased", "user_id", userID)
	return nil
}

// IsPro reports whether the user's subscription is active, with a one day grace period
func (s *UsageService) IsPro(ctx context.Context, userID string) (bool, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get subscription: %w", err)
	}
	return sub.IsActive(s.now()), nil
}

// GetUsage returns the counter, the free allowance and the pro flag
func (s *UsageService) GetUsage(ctx context.Context, userID string) (*models.Usage, error) {
	count, err := s.count(ctx, userID)
	if err != nil {
		return nil, err
	}
	isPro, err := s.IsPro(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Usage{
		Count:         count,
		MaxFreeCounts: s.maxFreeCounts,
		IsPro:         isPro,
	}, nil
}

func (s *UsageService) count(ctx context.Context, userID string) (int, error) {
	limit, err := s.limitRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get api limit: %w", err)
	}
	if limit == nil {
		return 0, nil
	}
	return limit.Count, nil
}
