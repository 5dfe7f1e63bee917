package sandwich

import (
	"testing"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchWithSequence(sequence uint64) *discord.Payload {
	return &discord.Payload{Op: discord.GatewayOpDispatch, Sequence: &sequence, Type: "CUSTOM_EVENT"}
}

func TestSequenceTrackerObserve(t *testing.T) {
	t.Parallel()

	var tracker SequenceTracker

	_, ok := tracker.Current()
	assert.False(t, ok)
	assert.Nil(t, tracker.pointer())

	require.NoError(t, tracker.Observe(dispatchWithSequence(1)))
	require.NoError(t, tracker.Observe(dispatchWithSequence(4)))
	require.NoError(t, tracker.Observe(dispatchWithSequence(4)))

	sequence, ok := tracker.Current()
	assert.True(t, ok)
	assert.Equal(t, uint64(4), sequence)
	assert.Equal(t, uint64(4), *tracker.pointer())
}

func TestSequenceTrackerIgnoresOtherOpcodes(t *testing.T) {
	t.Parallel()

	var tracker SequenceTracker

	sequence := uint64(9)

	require.NoError(t, tracker.Observe(&discord.Payload{Op: discord.GatewayOpHeartbeatACK, Sequence: &sequence}))
	require.NoError(t, tracker.Observe(&discord.Payload{Op: discord.GatewayOpDispatch}))
	require.NoError(t, tracker.Observe(nil))

	_, ok := tracker.Current()
	assert.False(t, ok)
}

func TestSequenceTrackerRegression(t *testing.T) {
	t.Parallel()

	var tracker SequenceTracker

	require.NoError(t, tracker.Observe(dispatchWithSequence(5)))
	assert.ErrorIs(t, tracker.Observe(dispatchWithSequence(3)), ErrSequenceRegression)

	sequence, _ := tracker.Current()
	assert.Equal(t, uint64(5), sequence)
}

func TestSequenceTrackerReset(t *testing.T) {
	t.Parallel()

	var tracker SequenceTracker

	require.NoError(t, tracker.Observe(dispatchWithSequence(5)))

	tracker.Reset()

	_, ok := tracker.Current()
	assert.False(t, ok)

	require.NoError(t, tracker.Observe(dispatchWithSequence(1)))
}
