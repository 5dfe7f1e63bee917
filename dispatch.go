package sandwich

import (
	"context"
	"sync"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
)

// EventProvider consumes what a shard receives. Calls for a shard are made
// from a single goroutine in the order frames arrived.
//
// Events wait in an unbounded queue while a call is running, so a provider
// that stalls makes memory grow until it returns. A warning is logged once the
// queue reaches producer.queue_high_water.
type EventProvider interface {
	// Dispatch receives every decoded dispatch (op 0) payload.
	Dispatch(ctx context.Context, shard *Shard, payload *discord.Payload, trace *Trace) error
	// DispatchError receives payloads that failed to decode, sequence
	// regressions and, once, the error that closed the shard.
	DispatchError(ctx context.Context, shard *Shard, err error)
}

func NewTrace() *Trace {
	t := make(Trace)
	return &t
}

// Trace records when a payload passed through each stage, in unix nanoseconds.
type Trace map[string]int64

func (t *Trace) Set(key string, value int64) *Trace {
	(*t)[key] = value

	return t
}

type dispatchItem struct {
	payload *discord.Payload
	trace   *Trace
	err     error
}

// dispatchQueue is an unbounded FIFO drained by one goroutine so the run loop
// never blocks on a slow consumer.
type dispatchQueue struct {
	mu     sync.Mutex
	items  []dispatchItem
	closed bool

	// onHighWater is called once when the backlog reaches highWater and again
	// only after the backlog has been taken by the consumer. Zero disables it.
	highWater   int
	onHighWater func(depth int)
	warned      bool

	signal  chan struct{}
	drained chan struct{}
}

func newDispatchQueue() *dispatchQueue {
	return &dispatchQueue{
		signal:  make(chan struct{}, 1),
		drained: make(chan struct{}),
	}
}

func (q *dispatchQueue) push(item dispatchItem) bool {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()

		return false
	}

	q.items = append(q.items, item)

	depth := len(q.items)
	crossed := q.highWater > 0 && depth >= q.highWater && !q.warned

	if crossed {
		q.warned = true
	}

	q.mu.Unlock()

	if crossed && q.onHighWater != nil {
		q.onHighWater(depth)
	}

	q.notify()

	return true
}

// depth returns how many items are waiting for the consumer.
func (q *dispatchQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *dispatchQueue) pushPayload(payload *discord.Payload, trace *Trace) bool {
	return q.push(dispatchItem{payload: payload, trace: trace})
}

func (q *dispatchQueue) pushError(err error) bool {
	return q.push(dispatchItem{err: err})
}

// close stops accepting items. Items already queued are still delivered.
func (q *dispatchQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.notify()
}

func (q *dispatchQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// run delivers items until the queue is closed and empty.
func (q *dispatchQueue) run(deliver func(item dispatchItem)) {
	defer close(q.drained)

	for {
		q.mu.Lock()
		items := q.items
		q.items = nil
		closed := q.closed
		q.warned = false
		q.mu.Unlock()

		for _, item := range items {
			deliver(item)
		}

		if len(items) > 0 {
			continue
		}

		if closed {
			return
		}

		<-q.signal
	}
}

// LoggingEventProvider logs every event it receives. It is used when no producer is configured.
type LoggingEventProvider struct{}

func (LoggingEventProvider) Dispatch(_ context.Context, shard *Shard, payload *discord.Payload, _ *Trace) error {
	sequence, _ := payload.SequenceValue()

	shard.Logger.Debug().
		Str("type", payload.Type).
		Uint64("sequence", sequence).
		Msg("Received dispatch")

	return nil
}

func (LoggingEventProvider) DispatchError(_ context.Context, shard *Shard, err error) {
	shard.Logger.Warn().Err(err).Msg("Received error from shard")
}
