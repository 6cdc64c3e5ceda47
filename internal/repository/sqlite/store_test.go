package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genius/internal/domain"
	"genius/internal/domain/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), MemoryPath, "test_", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }

func TestAPILimit_IncrementAndGet(t *testing.T) {
	repo := NewAPILimitRepository(openTestStore(t))
	ctx := context.Background()

	limit, err := repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, limit)

	require.NoError(t, repo.Increment(ctx, "user_1"))
	require.NoError(t, repo.Increment(ctx, "user_1"))
	require.NoError(t, repo.Increment(ctx, "user_2"))

	limit, err = repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, 2, limit.Count)
	assert.NotEmpty(t, limit.ID)
	assert.False(t, limit.CreatedAt.IsZero())

	limit, err = repo.GetByUserID(ctx, "user_2")
	require.NoError(t, err)
	assert.Equal(t, 1, limit.Count)
}

func TestAPILimit_ConcurrentIncrements(t *testing.T) {
	repo := NewAPILimitRepository(openTestStore(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Increment(ctx, "user_1"))
		}()
	}
	wg.Wait()

	limit, err := repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 20, limit.Count)
}

func TestSubscription_CreateGetUpdate(t *testing.T) {
	repo := NewSubscriptionRepository(openTestStore(t))
	ctx := context.Background()

	sub, err := repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, sub)

	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	created := &models.UserSubscription{
		UserID:                 "user_1",
		StripeCustomerID:       strPtr("cus_1"),
		StripeSubscriptionID:   strPtr("sub_1"),
		StripePriceID:          strPtr("price_1"),
		StripeCurrentPeriodEnd: &end,
	}
	require.NoError(t, repo.Create(ctx, created))
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cus_1", *got.StripeCustomerID)
	assert.Equal(t, "price_1", *got.StripePriceID)
	assert.True(t, end.Equal(*got.StripeCurrentPeriodEnd))
	assert.True(t, got.HasCustomer())

	renewed := end.AddDate(0, 1, 0)
	require.NoError(t, repo.UpdateBySubscriptionID(ctx, &models.UserSubscription{
		StripeSubscriptionID:   strPtr("sub_1"),
		StripePriceID:          strPtr("price_2"),
		StripeCurrentPeriodEnd: &renewed,
	}))

	got, err = repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "price_2", *got.StripePriceID)
	assert.True(t, renewed.Equal(*got.StripeCurrentPeriodEnd))
	assert.Equal(t, "cus_1", *got.StripeCustomerID)
}

func TestSubscription_SecondCheckoutReplaces(t *testing.T) {
	repo := NewSubscriptionRepository(openTestStore(t))
	ctx := context.Background()

	first := &models.UserSubscription{UserID: "user_1", StripeCustomerID: strPtr("cus_1"), StripeSubscriptionID: strPtr("sub_1")}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.UserSubscription{UserID: "user_1", StripeCustomerID: strPtr("cus_1"), StripeSubscriptionID: strPtr("sub_2")}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "sub_2", *got.StripeSubscriptionID)
}

func TestSubscription_UpdateUnknown(t *testing.T) {
	repo := NewSubscriptionRepository(openTestStore(t))

	err := repo.UpdateBySubscriptionID(context.Background(), &models.UserSubscription{StripeSubscriptionID: strPtr("sub_x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_FileAndDrop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "genius.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store, err := Open(ctx, path, "dev_", logger)
	require.NoError(t, err)
	require.NoError(t, NewAPILimitRepository(store).Increment(ctx, "user_1"))
	require.NoError(t, store.Close())

	store, err = Open(ctx, path, "dev_", logger)
	require.NoError(t, err)
	defer store.Close()

	limit, err := NewAPILimitRepository(store).GetByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 1, limit.Count)

	require.NoError(t, store.Drop(ctx))
	_, err = NewAPILimitRepository(store).GetByUserID(ctx, "user_1")
	assert.Error(t, err)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), " ", "dev_", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
