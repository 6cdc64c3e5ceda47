package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genius/internal/domain/models"
)

type memLimits struct {
	counts map[string]int
	err    error
}

func (m *memLimits) GetByUserID(_ context.Context, userID string) (*models.UserAPILimit, error) {
	if m.err != nil {
		return nil, m.err
	}
	count, ok := m.counts[userID]
	if !ok {
		return nil, nil
	}
	return &models.UserAPILimit{UserID: userID, Count: count}, nil
}

func (m *memLimits) Increment(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.counts[userID]++
	return nil
}

type memSubs struct {
	subs map[string]*models.UserSubscription
}

func (m *memSubs) GetByUserID(_ context.Context, userID string) (*models.UserSubscription, error) {
	return m.subs[userID], nil
}

func (m *memSubs) Create(_ context.Context, sub *models.UserSubscription) error {
	m.subs[sub.UserID] = sub
	return nil
}

func (m *memSubs) UpdateBySubscriptionID(context.Context, *models.UserSubscription) error {
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newUsage(limits *memLimits, subs *memSubs) *UsageService {
	svc := NewUsageService(limits, subs, 5, slog.New(slog.NewTextHandler(io.Discard, nil))).(*UsageService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckAPILimit(t *testing.T) {
	limits := &memLimits{counts: map[string]int{"used_up": 5, "almost": 4}}
	svc := newUsage(limits, &memSubs{subs: map[string]*models.UserSubscription{}})
	ctx := context.Background()

	ok, err := svc.CheckAPILimit(ctx, "new_user")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAPILimit(ctx, "almost")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAPILimit(ctx, "used_up")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncreaseAPILimit(t *testing.T) {
	limits := &memLimits{counts: map[string]int{}}
	svc := newUsage(limits, &memSubs{subs: map[string]*models.UserSubscription{}})

	require.NoError(t, svc.IncreaseAPILimit(context.Background(), "u"))
	require.NoError(t, svc.IncreaseAPILimit(context.Background(), "u"))
	assert.Equal(t, 2, limits.counts["u"])
}

func TestIsPro(t *testing.T) {
	subs := &memSubs{subs: map[string]*models.UserSubscription{
		"active": {
			UserID:                 "active",
			StripePriceID:          strPtr("price_1"),
			StripeCurrentPeriodEnd: timePtr(fixedNow.Add(10 * 24 * time.Hour)),
		},
		"grace": {
			UserID:                 "grace",
			StripePriceID:          strPtr("price_1"),
			StripeCurrentPeriodEnd: timePtr(fixedNow.Add(-23 * time.Hour)),
		},
		"lapsed": {
			UserID:                 "lapsed",
			StripePriceID:          strPtr("price_1"),
			StripeCurrentPeriodEnd: timePtr(fixedNow.Add(-25 * time.Hour)),
		},
		"no_price": {
			UserID:                 "no_price",
			StripeCurrentPeriodEnd: timePtr(fixedNow.Add(time.Hour)),
		},
	}}
	svc := newUsage(&memLimits{counts: map[string]int{}}, subs)

	tests := map[string]bool{
		"active":   true,
		"grace":    true,
		"lapsed":   false,
		"no_price": false,
		"nobody":   false,
	}
	for userID, want := range tests {
		t.Run(userID, func(t *testing.T) {
			got, err := svc.IsPro(context.Background(), userID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestGetUsage(t *testing.T) {
	svc := newUsage(
		&memLimits{counts: map[string]int{"u": 3}},
		&memSubs{subs: map[string]*models.UserSubscription{}},
	)

	usage, err := svc.GetUsage(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, &models.Usage{Count: 3, MaxFreeCounts: 5, IsPro: false}, usage)
}

func TestUsage_RepositoryError(t *testing.T) {
	boom := errors.New("db down")
	svc := newUsage(&memLimits{err: boom}, &memSubs{subs: map[string]*models.UserSubscription{}})

	_, err := svc.CheckAPILimit(context.Background(), "u")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.IncreaseAPILimit(context.Background(), "u"), boom)
}
