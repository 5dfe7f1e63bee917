package sandwich_test

import (
	"context"
	"testing"

	sandwich "github.com/WelcomerTeam/Sandwich-Gateway"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func serve(t *testing.T, handler fasthttp.RequestHandler, path string) *fasthttp.Response {
	t.Helper()

	var req fasthttp.Request

	req.SetRequestURI(path)
	req.Header.SetMethod(fasthttp.MethodGet)

	var ctx fasthttp.RequestCtx

	ctx.Init(&req, nil, nil)

	handler(&ctx)

	var resp fasthttp.Response

	ctx.Response.CopyTo(&resp)

	return &resp
}

func TestStatusServer(t *testing.T) {
	t.Parallel()

	h := newShardHarness(t, fullJitter, nil)
	conn := h.connect(t)

	conn.push(`{"op":0,"s":2,"t":"CUSTOM_EVENT","d":{}}`)
	h.provider.expectPayload(t, "CUSTOM_EVENT")

	handler := sandwich.NewStatusServer(h.manager).Handler()

	// The harness shard is not registered with the manager.
	resp := serve(t, handler, "/api/shards/0")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())

	resp = serve(t, handler, "/api/shards/zero")
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())

	snapshot := h.shard.Snapshot()
	assert.Equal(t, "Connected", snapshot.Status)
	assert.Equal(t, "abc", snapshot.SessionID)
	require.NotNil(t, snapshot.Sequence)
	assert.Equal(t, uint64(2), *snapshot.Sequence)
	assert.Equal(t, int64(45000), snapshot.HeartbeatIntervalMs)

	resp = serve(t, handler, "/api/status")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "application/json;charset=UTF-8", string(resp.Header.ContentType()))

	var body struct {
		Success  bool                     `json:"success"`
		Response sandwich.ManagerSnapshot `json:"response"`
	}

	require.NoError(t, sandwichjson.Unmarshal(resp.Body(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "sandwich", body.Response.Application)
	assert.Equal(t, "Idle", body.Response.Status)
	assert.Empty(t, body.Response.Shards)

	resp = serve(t, handler, "/metrics")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "sandwich_events_total")
}

func TestStatusServerListsManagerShards(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	dialer.next()

	manager := sandwich.NewManager(zerolog.Nop(), testConfiguration(t), dialer, instantIdentify, newRecordingProvider())

	require.NoError(t, manager.Start())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()

		_ = manager.Close(ctx)
	})

	handler := sandwich.NewStatusServer(manager).Handler()

	resp := serve(t, handler, "/api/shards/0")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	var body struct {
		Success  bool                   `json:"success"`
		Response sandwich.ShardSnapshot `json:"response"`
	}

	require.NoError(t, sandwichjson.Unmarshal(resp.Body(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int32(0), body.Response.ShardID)
	assert.Equal(t, int32(1), body.Response.ShardCount)
	assert.Nil(t, body.Response.Sequence)
}
