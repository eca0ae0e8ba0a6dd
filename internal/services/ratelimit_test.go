package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartel47-backend/internal/services"
)

func TestLocalRateLimiter(t *testing.T) {
	limiter := services.NewLocalRateLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "alice", "bet")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "alice", "bet")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "bob", "bet")
	require.NoError(t, err)
	assert.True(t, allowed, "buckets are per user")

	allowed, err = limiter.Allow(ctx, "alice", "settle")
	require.NoError(t, err)
	assert.True(t, allowed, "buckets are per action")

	assert.Equal(t, 0, limiter.Sweep(), "fresh buckets are kept")
}
