package cache

import (
	"context"
	"testing"

	apperrors "go-event-reservation/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache_WarmUpAndGet(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := NewRedisAvailabilityCache(getTestRdb())

	require.NoError(t, c.WarmUp(ctx, 1, 25))

	spots, err := c.GetAvailableSpots(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, spots)
}

func TestAvailabilityCache_GetMissing(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := NewRedisAvailabilityCache(getTestRdb())

	spots, err := c.GetAvailableSpots(ctx, 42)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Equal(t, -1, spots)
}

func TestAvailabilityCache_Refresh(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := NewRedisAvailabilityCache(getTestRdb())

	require.NoError(t, c.WarmUp(ctx, 1, 10))
	require.NoError(t, c.Refresh(ctx, 1, 9))

	spots, err := c.GetAvailableSpots(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, spots)
}

func TestAvailabilityCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := NewRedisAvailabilityCache(getTestRdb())

	require.NoError(t, c.WarmUp(ctx, 1, 10))
	require.NoError(t, c.Invalidate(ctx, 1))

	_, err := c.GetAvailableSpots(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
