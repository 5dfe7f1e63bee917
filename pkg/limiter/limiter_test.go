package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/pkg/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationLimiterAllowsBurst(t *testing.T) {
	t.Parallel()

	l := limiter.NewDurationLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Lock(context.Background()))
	}

	assert.Equal(t, int32(0), l.Available())
}

func TestDurationLimiterWaitsForWindow(t *testing.T) {
	t.Parallel()

	l := limiter.NewDurationLimiter(1, 50*time.Millisecond)

	require.NoError(t, l.Lock(context.Background()))

	start := time.Now()

	require.NoError(t, l.Lock(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDurationLimiterObservesContext(t *testing.T) {
	t.Parallel()

	l := limiter.NewDurationLimiter(1, time.Hour)

	require.NoError(t, l.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDurationLimiterReset(t *testing.T) {
	t.Parallel()

	l := limiter.NewDurationLimiter(2, time.Hour)

	require.NoError(t, l.Lock(context.Background()))
	require.NoError(t, l.Lock(context.Background()))

	l.Reset()

	assert.Equal(t, int32(2), l.Available())
	require.NoError(t, l.Lock(context.Background()))
}
