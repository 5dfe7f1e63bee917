package sandwich

import (
	"math/rand/v2"
	"time"
)

// heartbeater schedules heartbeats for a single connection. It is owned by
// the shard's run loop and is not safe for concurrent use.
type heartbeater struct {
	jitter func(interval time.Duration) time.Duration

	interval time.Duration
	timer    *time.Timer

	awaitingAck bool
	lastSent    time.Time
}

// heartbeatJitter returns a random delay in [0, interval).
func heartbeatJitter(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}

	return time.Duration(rand.Int64N(int64(interval)))
}

func newHeartbeater(jitter func(time.Duration) time.Duration) *heartbeater {
	if jitter == nil {
		jitter = heartbeatJitter
	}

	return &heartbeater{jitter: jitter}
}

// Arm schedules the first heartbeat after a jittered delay and every interval after.
func (h *heartbeater) Arm(interval time.Duration) {
	h.Disarm()

	h.interval = interval
	h.awaitingAck = false
	h.timer = time.NewTimer(h.jitter(interval))
}

// C fires when a heartbeat is due. It is nil while disarmed.
func (h *heartbeater) C() <-chan time.Time {
	if h.timer == nil {
		return nil
	}

	return h.timer.C
}

// Due is called once C has fired. It returns ErrHeartbeatTimeout when the
// previous heartbeat was never acknowledged, otherwise schedules the next one.
func (h *heartbeater) Due() error {
	if h.timer == nil {
		return nil
	}

	if h.awaitingAck {
		return ErrHeartbeatTimeout
	}

	h.timer.Reset(h.interval)

	return nil
}

func (h *heartbeater) Sent(now time.Time) {
	h.awaitingAck = true
	h.lastSent = now
}

// Ack clears the pending heartbeat and returns the round trip time.
func (h *heartbeater) Ack(now time.Time) (time.Duration, bool) {
	if !h.awaitingAck {
		return 0, false
	}

	h.awaitingAck = false

	return now.Sub(h.lastSent), true
}

func (h *heartbeater) Armed() bool {
	return h.timer != nil
}

// Disarm stops the timer. No heartbeat is produced until Arm is called again.
func (h *heartbeater) Disarm() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}

	h.awaitingAck = false
}
