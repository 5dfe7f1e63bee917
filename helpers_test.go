package sandwich_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	sandwich "github.com/WelcomerTeam/Sandwich-Gateway"
	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken      = "test-token"
	testResumeURL  = "wss://resume.example.com"
	testGatewayURL = "wss://gateway.example.com"

	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var errConnectionLost = errors.New("connection lost")

// fakeConn is an in memory Transport. Frames pushed with push are returned by
// ReceiveFrame and every frame sent by the shard is decoded into commands.
type fakeConn struct {
	incoming chan []byte
	failures chan error
	commands chan discord.Command

	closeOnce sync.Once
	closed    chan struct{}
	closeCode chan int

	mu   sync.Mutex
	sent int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		incoming:  make(chan []byte, 16),
		failures:  make(chan error, 1),
		commands:  make(chan discord.Command, 64),
		closed:    make(chan struct{}),
		closeCode: make(chan int, 1),
	}
}

func (c *fakeConn) SendFrame(_ context.Context, frame []byte) error {
	cmd, err := discord.DecodeCommand(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sent++
	c.mu.Unlock()

	select {
	case c.commands <- cmd:
	default:
	}

	return nil
}

func (c *fakeConn) ReceiveFrame(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-c.incoming:
		return frame, nil
	case err := <-c.failures:
		return nil, err
	case <-c.closed:
		return nil, errConnectionLost
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Close(code int, _ string) error {
	c.closeOnce.Do(func() {
		c.closeCode <- code
		close(c.closed)
	})

	return nil
}

func (c *fakeConn) Sent() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sent
}

func (c *fakeConn) push(frame string) {
	c.incoming <- []byte(frame)
}

func (c *fakeConn) fail(err error) {
	c.failures <- err
}

func (c *fakeConn) hello(intervalMs int) {
	c.push(`{"op":10,"d":{"heartbeat_interval":` + strconv.Itoa(intervalMs) + `}}`)
}

// expectCommand returns the next command, skipping heartbeats unless op is a heartbeat.
func (c *fakeConn) expectCommand(t *testing.T, op discord.GatewayOp) discord.Command {
	t.Helper()

	timeout := time.After(waitFor)

	for {
		select {
		case cmd := <-c.commands:
			if cmd.Op() == discord.GatewayOpHeartbeat && op != discord.GatewayOpHeartbeat {
				continue
			}

			require.Equal(t, op, cmd.Op())

			return cmd
		case <-timeout:
			require.FailNowf(t, "timed out", "no %s command was sent", op)
		}
	}
}

func (c *fakeConn) expectClosed(t *testing.T) int {
	t.Helper()

	select {
	case code := <-c.closeCode:
		return code
	case <-time.After(waitFor):
		require.FailNow(t, "connection was not closed")
	}

	return 0
}

// fakeDialer hands out connections in the order they were queued.
type fakeDialer struct {
	conns chan *fakeConn
	urls  chan string
	err   error

	mu       sync.Mutex
	attempts int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		conns: make(chan *fakeConn, 8),
		urls:  make(chan string, 64),
	}
}

func (d *fakeDialer) Dial(ctx context.Context, gatewayURL string) (sandwich.Transport, error) {
	d.mu.Lock()
	d.attempts++
	d.mu.Unlock()

	select {
	case d.urls <- gatewayURL:
	default:
	}

	if d.err != nil {
		return nil, d.err
	}

	select {
	case conn := <-d.conns:
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *fakeDialer) Attempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.attempts
}

func (d *fakeDialer) next() *fakeConn {
	conn := newFakeConn()
	d.conns <- conn

	return conn
}

func (d *fakeDialer) expectURL(t *testing.T) string {
	t.Helper()

	select {
	case gatewayURL := <-d.urls:
		return gatewayURL
	case <-time.After(waitFor):
		require.FailNow(t, "gateway was not dialed")
	}

	return ""
}

// recordingProvider collects everything a shard delivers.
type recordingProvider struct {
	payloads chan *discord.Payload
	errs     chan error
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{
		payloads: make(chan *discord.Payload, 64),
		errs:     make(chan error, 64),
	}
}

func (p *recordingProvider) Dispatch(_ context.Context, _ *sandwich.Shard, payload *discord.Payload, _ *sandwich.Trace) error {
	p.payloads <- payload

	return nil
}

func (p *recordingProvider) DispatchError(_ context.Context, _ *sandwich.Shard, err error) {
	p.errs <- err
}

func (p *recordingProvider) expectPayload(t *testing.T, eventType string) *discord.Payload {
	t.Helper()

	select {
	case payload := <-p.payloads:
		require.Equal(t, eventType, payload.Type)

		return payload
	case <-time.After(waitFor):
		require.FailNowf(t, "timed out", "no %s was dispatched", eventType)
	}

	return nil
}

func (p *recordingProvider) expectError(t *testing.T, target error) error {
	t.Helper()

	select {
	case err := <-p.errs:
		require.ErrorIs(t, err, target)

		return err
	case <-time.After(waitFor):
		require.FailNowf(t, "timed out", "no error matching %v was delivered", target)
	}

	return nil
}

var instantIdentify = sandwich.IdentifyFunc(func(context.Context, *sandwich.Shard) error {
	return nil
})

func testConfiguration(t *testing.T) *sandwich.Configuration {
	t.Helper()

	configuration, err := sandwich.ParseConfiguration([]byte(`
gateway:
  token: ` + testToken + `
  url: ` + testGatewayURL + `
  intents: [guilds, guild_messages]
timing:
  reconnect_backoff: 1ms
  max_reconnect_backoff: 5ms
  max_reconnect_attempts: 3
  invalid_session_delay_min: 1ms
  invalid_session_delay_max: 2ms
  rate_limit_backoff: 5ms
`))
	require.NoError(t, err)

	return configuration
}

type shardHarness struct {
	manager  *sandwich.Manager
	shard    *sandwich.Shard
	dialer   *fakeDialer
	provider *recordingProvider
}

func noJitter(time.Duration) time.Duration {
	return 0
}

// fullJitter delays the first heartbeat by a whole interval.
func fullJitter(interval time.Duration) time.Duration {
	return interval
}

func newShardHarness(t *testing.T, jitter func(time.Duration) time.Duration, configure func(*sandwich.Configuration)) *shardHarness {
	t.Helper()

	dialer := newFakeDialer()
	provider := newRecordingProvider()

	configuration := testConfiguration(t)
	if configure != nil {
		configure(configuration)
	}

	manager := sandwich.NewManager(zerolog.Nop(), configuration, dialer, instantIdentify, provider)
	manager.HeartbeatJitter = jitter

	shard := manager.NewShard(0)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()

		assert.NoError(t, shard.Close(ctx))
	})

	return &shardHarness{
		manager:  manager,
		shard:    shard,
		dialer:   dialer,
		provider: provider,
	}
}

// connect opens the shard and completes an identify, returning the live connection.
func (h *shardHarness) connect(t *testing.T) *fakeConn {
	t.Helper()

	conn := h.dialer.next()

	require.NoError(t, h.shard.Open())
	require.Equal(t, testGatewayURL, h.dialer.expectURL(t))

	conn.hello(45000)
	conn.expectCommand(t, discord.GatewayOpIdentify)

	conn.push(`{"op":0,"s":1,"t":"READY","d":{"v":10,"session_id":"abc","resume_gateway_url":"` + testResumeURL + `","guilds":[],"application":{"id":"1234"}}}`)
	h.provider.expectPayload(t, "READY")

	require.Eventually(t, func() bool {
		return h.shard.Status() == sandwich.ShardStatusConnected
	}, waitFor, tick)

	return conn
}
