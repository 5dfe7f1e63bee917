package sandwich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReturnRangeInt32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int32{0, 1, 2, 3, 4, 6, 7}, returnRangeInt32(0, 0, "0-4,6-7", 8))
	assert.Equal(t, []int32{0}, returnRangeInt32(0, 0, "0", 8))
	assert.Empty(t, returnRangeInt32(0, 0, "", 8))
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 6, 7}, returnRangeInt32(0, 0, "0-4,6-7,8", 8))
}

func TestReturnRangeInt32Nodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int32{1, 3, 5, 7}, returnRangeInt32(2, 1, "0-7", 8))
	assert.Equal(t, []int32{0, 3, 6}, returnRangeInt32(3, 0, "0-7", 8))
}

func TestRandomHex(t *testing.T) {
	t.Parallel()

	assert.Len(t, randomHex(16), 32)
	assert.Empty(t, randomHex(0))
	assert.NotEqual(t, randomHex(16), randomHex(16))
}

func TestTokenHash(t *testing.T) {
	t.Parallel()

	assert.Len(t, tokenHash("token"), 64)
	assert.Equal(t, tokenHash("token"), tokenHash("token"))
	assert.NotEqual(t, tokenHash("token"), tokenHash("other"))
}

func TestRandomDuration(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		d := randomDuration(time.Second, 5*time.Second)

		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}

	assert.Equal(t, time.Second, randomDuration(time.Second, time.Second))
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
