package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/internal/ratelimit"
)

func TestOperationLimiter_SeparateBuckets(t *testing.T) {
	l := ratelimit.NewOperationLimiter(ratelimit.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "searchFlights"))
	// a different operation has its own bucket
	require.NoError(t, l.Wait(ctx, "searchAirport"))

	// the first bucket is now empty, so a short deadline must expire
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "searchFlights"))
}

func TestOperationLimiter_GetLimiterIsStable(t *testing.T) {
	l := ratelimit.NewOperationLimiterWithDefaults()
	assert.Same(t, l.GetLimiter("getPriceCalendar"), l.GetLimiter("getPriceCalendar"))
}

func TestOperationLimiter_SetOperationLimit(t *testing.T) {
	l := ratelimit.NewOperationLimiterWithDefaults()
	l.SetOperationLimit("searchAirport", 20, 7)

	lim := l.GetLimiter("searchAirport")
	assert.Equal(t, 7, lim.Burst())
	assert.InDelta(t, 20.0, float64(lim.Limit()), 0.001)
}
