package sandwich_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	sandwich "github.com/WelcomerTeam/Sandwich-Gateway"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newIdentifyManager(t *testing.T, configure func(*sandwich.Configuration)) *sandwich.Manager {
	t.Helper()

	configuration := testConfiguration(t)
	if configure != nil {
		configure(configuration)
	}

	return sandwich.NewManager(zerolog.Nop(), configuration, newFakeDialer(), nil, nil)
}

func TestIdentifyViaBuckets(t *testing.T) {
	t.Parallel()

	manager := newIdentifyManager(t, func(c *sandwich.Configuration) {
		c.Gateway.ShardCount = 4
		c.Gateway.MaxConcurrency = 2
	})

	provider := sandwich.NewIdentifyViaBuckets()

	require.NoError(t, provider.Identify(context.Background(), manager.NewShard(0)))

	// Shard 1 is in a different concurrency bucket.
	require.NoError(t, provider.Identify(context.Background(), manager.NewShard(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Shard 2 shares a bucket with shard 0.
	assert.ErrorIs(t, provider.Identify(ctx, manager.NewShard(2)), context.DeadlineExceeded)
}

type identifyServer struct {
	mu       sync.Mutex
	requests []identifyRecord
	rejects  int
}

type identifyRecord struct {
	path          string
	authorization string
	body          map[string]any
}

func (s *identifyServer) handle(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]any

	_ = sandwichjson.Unmarshal(ctx.PostBody(), &body)

	s.requests = append(s.requests, identifyRecord{
		path:          string(ctx.Path()),
		authorization: string(ctx.Request.Header.Peek("Authorization")),
		body:          body,
	})

	if s.rejects > 0 {
		s.rejects--

		ctx.Response.Header.Set("X-Retry-After-Ms", "10")
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)

		return
	}

	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func newIdentifyViaListener(t *testing.T, server *identifyServer, url string) *sandwich.IdentifyViaURL {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()

	go func() {
		_ = fasthttp.Serve(ln, server.handle)
	}()

	t.Cleanup(func() {
		_ = ln.Close()
	})

	provider := sandwich.NewIdentifyViaURL(url, map[string]string{"Authorization": "secret"})
	provider.Client.Dial = func(string) (net.Conn, error) {
		return ln.Dial()
	}

	return provider
}

func TestIdentifyViaURL(t *testing.T) {
	t.Parallel()

	server := &identifyServer{rejects: 2}
	provider := newIdentifyViaListener(t, server, "http://identify.local/identify/{shard_id}/{shard_count}")

	manager := newIdentifyManager(t, func(c *sandwich.Configuration) {
		c.Gateway.ShardCount = 4
	})

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	require.NoError(t, provider.Identify(ctx, manager.NewShard(3)))

	server.mu.Lock()
	defer server.mu.Unlock()

	require.Len(t, server.requests, 3)

	request := server.requests[2]
	assert.Equal(t, "/identify/3/4", request.path)
	assert.Equal(t, "secret", request.authorization)
	assert.EqualValues(t, 3, request.body["shard_id"])
	assert.EqualValues(t, 4, request.body["shard_count"])
	assert.Equal(t, testToken, request.body["token"])
	assert.Len(t, request.body["token_hash"], 64)
}

func TestIdentifyViaURLObservesContext(t *testing.T) {
	t.Parallel()

	server := &identifyServer{rejects: 1000}
	provider := newIdentifyViaListener(t, server, "http://identify.local/identify")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := provider.Identify(ctx, newIdentifyManager(t, nil).NewShard(0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
