package sandwich

import (
	"fmt"
	"sync"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
)

// SequenceTracker holds the last sequence number received on a session.
type SequenceTracker struct {
	mu    sync.RWMutex
	value uint64
	set   bool
}

// Observe records the sequence of a dispatch. Other opcodes and dispatches
// without a sequence leave the tracker unchanged. A sequence lower than the
// current one is rejected with ErrSequenceRegression.
func (t *SequenceTracker) Observe(payload *discord.Payload) error {
	if payload == nil || payload.Op != discord.GatewayOpDispatch {
		return nil
	}

	sequence, ok := payload.SequenceValue()
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.set && sequence < t.value {
		return fmt.Errorf("%w: received %d after %d", ErrSequenceRegression, sequence, t.value)
	}

	t.value = sequence
	t.set = true

	return nil
}

// Current returns the last sequence and whether any has been received.
func (t *SequenceTracker) Current() (uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.value, t.set
}

// Reset forgets the sequence. It is only used when a session is discarded.
func (t *SequenceTracker) Reset() {
	t.mu.Lock()
	t.value = 0
	t.set = false
	t.mu.Unlock()
}

// pointer returns the current sequence as sent in a heartbeat.
func (t *SequenceTracker) pointer() *uint64 {
	value, ok := t.Current()
	if !ok {
		return nil
	}

	return &value
}
