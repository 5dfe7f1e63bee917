package sandwich

import (
	"strconv"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// RestResponse is the response when returning rest requests
type RestResponse struct {
	Success  bool   `json:"success"`
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ManagerSnapshot struct {
	Application   string                `json:"application"`
	ApplicationID discord.ApplicationID `json:"application_id"`
	Status        string                `json:"status"`
	StartedAt     time.Time             `json:"started_at"`
	Shards        []ShardSnapshot       `json:"shards"`
}

type ShardSnapshot struct {
	ShardID    int32  `json:"shard_id"`
	ShardCount int32  `json:"shard_count"`
	Status     string `json:"status"`

	SessionID string  `json:"session_id,omitempty"`
	Sequence  *uint64 `json:"sequence"`

	HeartbeatIntervalMs int64 `json:"heartbeat_interval_ms"`
	GatewayLatencyMs    int64 `json:"gateway_latency_ms"`

	// QueueDepth is the number of events waiting for the event provider.
	QueueDepth int `json:"queue_depth"`

	Error string `json:"error,omitempty"`
}

// Snapshot returns the shard's current state.
func (sh *Shard) Snapshot() ShardSnapshot {
	snapshot := ShardSnapshot{
		ShardID:             sh.ShardID,
		ShardCount:          sh.ShardCount,
		Status:              sh.Status().String(),
		Sequence:            sh.sequence.pointer(),
		HeartbeatIntervalMs: sh.HeartbeatInterval().Milliseconds(),
		GatewayLatencyMs:    sh.GatewayLatency().Milliseconds(),
		QueueDepth:          sh.queue.depth(),
	}

	if session := sh.session.Load(); session != nil {
		snapshot.SessionID = session.ID
	}

	if err := sh.Err(); err != nil {
		snapshot.Error = err.Error()
	}

	return snapshot
}

func (m *Manager) Snapshot() ManagerSnapshot {
	shards := m.Shards()

	snapshot := ManagerSnapshot{
		Application:   m.identifier(),
		ApplicationID: m.ApplicationID(),
		Status:        m.Status().String(),
		StartedAt:     m.StartedAt(),
		Shards:        make([]ShardSnapshot, 0, len(shards)),
	}

	for _, shard := range shards {
		snapshot.Shards = append(snapshot.Shards, shard.Snapshot())
	}

	return snapshot
}

// StatusServer serves shard status and prometheus metrics over HTTP.
type StatusServer struct {
	manager *Manager
	server  *fasthttp.Server
}

func NewStatusServer(manager *Manager) *StatusServer {
	s := &StatusServer{manager: manager}

	s.server = &fasthttp.Server{
		Name:    "Sandwich " + VERSION,
		Handler: s.Handler(),
	}

	return s
}

// Handler routes:
//
//	GET /api/status            - the manager and every shard
//	GET /api/shards/{shard_id} - a single shard
//	GET /metrics               - prometheus metrics
func (s *StatusServer) Handler() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/status", s.handleStatus)
	r.GET("/api/shards/{shard_id}", s.handleShard)
	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	return s.logRequest(r.Handler)
}

func (s *StatusServer) ListenAndServe(host string) error {
	s.manager.Logger.Info().Str("host", host).Msg("Running HTTP server")

	return s.server.ListenAndServe(host)
}

func (s *StatusServer) Shutdown() error {
	return s.server.Shutdown()
}

func (s *StatusServer) logRequest(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		next(ctx)

		s.manager.Logger.Debug().
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	}
}

func (s *StatusServer) handleStatus(ctx *fasthttp.RequestCtx) {
	writeResponse(ctx, fasthttp.StatusOK, RestResponse{Success: true, Response: s.manager.Snapshot()})
}

func (s *StatusServer) handleShard(ctx *fasthttp.RequestCtx) {
	shardIDStr, _ := ctx.UserValue("shard_id").(string)

	shardID, err := strconv.ParseInt(shardIDStr, 10, 32)
	if err != nil {
		writeResponse(ctx, fasthttp.StatusBadRequest, RestResponse{Error: "invalid shard id"})

		return
	}

	shard, ok := s.manager.Shard(int32(shardID))
	if !ok {
		writeResponse(ctx, fasthttp.StatusNotFound, RestResponse{Error: "shard not found"})

		return
	}

	writeResponse(ctx, fasthttp.StatusOK, RestResponse{Success: true, Response: shard.Snapshot()})
}

func writeResponse(ctx *fasthttp.RequestCtx, statusCode int, response RestResponse) {
	body, err := sandwichjson.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)

		return
	}

	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json;charset=UTF-8")
	ctx.SetBody(body)
}
