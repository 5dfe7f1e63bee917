package sandwich

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/WelcomerTeam/RealRock/deadlock"
	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/pkg/limiter"
	"github.com/rs/zerolog"
	gotils_strconv "github.com/savsgio/gotils/strconv"
	"go.uber.org/atomic"
	"nhooyr.io/websocket"
)

var (
	GatewayLargeThreshold = int32(100)

	// We have a ratelimit of 120 messages per minute we can send to the gateway.
	// We use 110 so heartbeats, which are not limited, always have room.
	ShardWSRateLimit = int32(110)

	// MaxReconnectWait is the default cap for the reconnect backoff.
	MaxReconnectWait = 60 * time.Second

	// Number of frames read ahead of the run loop.
	MessageChannelBuffer = 64
)

// Closing with a code other than 1000 or 1001 keeps the session resumable.
const WebsocketReconnectCloseCode = 4000

// Session is an established gateway session that can be resumed.
type Session struct {
	ID               string    `json:"session_id"`
	ResumeGatewayURL string    `json:"resume_gateway_url"`
	StartedAt        time.Time `json:"started_at"`

	// DisconnectedAt is when the session last lost its connection, zero while connected.
	DisconnectedAt time.Time `json:"disconnected_at"`
}

// Shard is a single gateway connection and the session running over it.
type Shard struct {
	Logger zerolog.Logger

	ShardID    int32
	ShardCount int32

	manager *Manager

	status            atomic.Int32
	helloReceived     atomic.Bool
	heartbeatInterval atomic.Duration
	gatewayLatency    atomic.Duration
	session           atomic.Pointer[Session]
	fatal             atomic.Error
	opened            atomic.Bool

	sequence SequenceTracker

	connMu sync.Mutex
	conn   Transport

	wsRatelimit *limiter.DurationLimiter

	readerSignal deadlock.DeadSignal

	queue *dispatchQueue

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Owned by the run loop.
	heartbeater        *heartbeater
	identifyGate       chan error
	cancelIdentifyGate context.CancelFunc
	identifyAttempts   int32
	resumeAttempts     int32
}

// reconnectError ends a connection that the run loop should replace.
type reconnectError struct {
	code   int
	delay  time.Duration
	resume bool
	reason error
}

func (e *reconnectError) Error() string {
	return fmt.Sprintf("reconnecting (close code %d, resume %t): %v", e.code, e.resume, e.reason)
}

func (e *reconnectError) Unwrap() error {
	return e.reason
}

// NewShard creates a shard belonging to the manager. It does not connect until Open is called.
func (m *Manager) NewShard(shardID int32) *Shard {
	sh := &Shard{
		Logger: m.Logger.With().Int32("shard_id", shardID).Logger(),

		ShardID:    shardID,
		ShardCount: m.Configuration.Gateway.ShardCount,

		manager: m,

		wsRatelimit: limiter.NewDurationLimiter(ShardWSRateLimit, time.Minute),

		readerSignal: deadlock.DeadSignal{},

		queue: newDispatchQueue(),
		done:  make(chan struct{}),

		heartbeater: newHeartbeater(m.HeartbeatJitter),
	}

	sh.queue.highWater = m.Configuration.Producer.QueueHighWater
	sh.queue.onHighWater = func(depth int) {
		sh.Logger.Warn().Int("depth", depth).Msg("Event provider is falling behind, dispatch queue is growing")
	}

	sh.ctx, sh.cancel = context.WithCancel(m.ctx)

	return sh
}

// Open starts the shard in the background.
func (sh *Shard) Open() error {
	if !sh.opened.CompareAndSwap(false, true) {
		return ErrShardAlreadyOpen
	}

	sh.Logger.Debug().Msg("Opening shard")

	deliveryCtx := WithShardID(context.WithoutCancel(sh.ctx), sh.ShardID)

	go sh.queue.run(func(item dispatchItem) {
		sh.deliver(deliveryCtx, item)
	})

	go sh.run()

	return nil
}

// Close stops the shard and waits until every queued event has been delivered.
func (sh *Shard) Close(ctx context.Context) error {
	sh.cancel()

	if sh.opened.CompareAndSwap(false, true) {
		sh.setStatus(ShardStatusClosed)
		close(sh.done)

		return nil
	}

	select {
	case <-sh.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the shard has closed and delivered all events.
func (sh *Shard) Done() <-chan struct{} {
	return sh.done
}

// Err returns the error that closed the shard. It is nil while running or
// when the shard was closed with Close.
func (sh *Shard) Err() error {
	return sh.fatal.Load()
}

func (sh *Shard) Status() ShardStatus {
	return ShardStatus(sh.status.Load())
}

// Session returns a copy of the current session, or nil.
func (sh *Shard) Session() *Session {
	session := sh.session.Load()
	if session == nil {
		return nil
	}

	copied := *session

	return &copied
}

// Sequence returns the last sequence received and whether there is one.
func (sh *Shard) Sequence() (uint64, bool) {
	return sh.sequence.Current()
}

func (sh *Shard) HeartbeatInterval() time.Duration {
	return sh.heartbeatInterval.Load()
}

// GatewayLatency is the round trip time of the last acknowledged heartbeat.
func (sh *Shard) GatewayLatency() time.Duration {
	return sh.gatewayLatency.Load()
}

func (sh *Shard) setStatus(status ShardStatus) {
	for {
		previous := ShardStatus(sh.status.Load())
		if previous == status || previous == ShardStatusClosed {
			return
		}

		if sh.status.CompareAndSwap(int32(previous), int32(status)) {
			UpdateShardStatus(sh.manager.identifier(), sh.ShardID, status)

			sh.Logger.Debug().
				Str("from", previous.String()).
				Str("to", status.String()).
				Msg("Shard status updated")

			return
		}
	}
}

func (sh *Shard) run() {
	err := sh.connectLoop()

	sh.heartbeater.Disarm()

	if err != nil {
		var fatal *FatalError
		if !errors.As(err, &fatal) {
			fatal = &FatalError{Err: err}
		}

		sh.Logger.Error().Err(fatal.Err).Msg("Shard closed with an error")

		sh.fatal.Store(fatal)
		sh.setStatus(ShardStatusClosed)
		sh.queue.pushError(fatal)
	} else {
		sh.Logger.Info().Msg("Shard closed")
		sh.setStatus(ShardStatusClosed)
	}

	sh.queue.close()
	<-sh.queue.drained

	close(sh.done)
}

// connectLoop dials and serves connections until the shard is closed or a
// connection ends with an error that cannot be recovered from.
func (sh *Shard) connectLoop() error {
	timing := sh.manager.Configuration.Timing

	var (
		failures int32
		backoff  = timing.ReconnectBackoff
		delay    time.Duration
	)

	for {
		if err := sleepContext(sh.ctx, delay); err != nil {
			return nil
		}

		conn, err := sh.dial()
		if err != nil {
			if sh.ctx.Err() != nil {
				return nil
			}

			failures++

			sh.Logger.Warn().Err(err).Int32("failures", failures).Msg("Failed to connect to gateway")

			if failures >= timing.MaxReconnectAttempts {
				return fmt.Errorf("%w after %d attempts: %w", ErrShardConnectFailed, failures, err)
			}

			delay = backoff

			backoff *= 2
			if backoff > timing.MaxReconnectBackoff {
				backoff = timing.MaxReconnectBackoff
			}

			continue
		}

		failures = 0
		backoff = timing.ReconnectBackoff

		err = sh.serve(conn)

		var reconnect *reconnectError

		if !errors.As(err, &reconnect) {
			return err
		}

		sh.Logger.Info().
			Err(reconnect.reason).
			Bool("resume", reconnect.resume).
			Dur("delay", reconnect.delay).
			Msg("Shard is reconnecting")

		RecordReconnect(sh.manager.identifier(), sh.ShardID, reconnect.resume)

		delay = reconnect.delay
	}
}

func (sh *Shard) dial() (Transport, error) {
	gatewayURL := sh.manager.Configuration.Gateway.URL

	if session := sh.session.Load(); session != nil && session.ResumeGatewayURL != "" && sh.resumable(time.Now()) {
		gatewayURL = session.ResumeGatewayURL
	}

	sh.Logger.Debug().Str("url", gatewayURL).Msg("Dialing gateway")

	return sh.manager.dialer.Dial(sh.ctx, gatewayURL)
}

// resumable reports whether the stored session can be resumed.
func (sh *Shard) resumable(now time.Time) bool {
	session := sh.session.Load()
	if session == nil || session.ID == "" {
		return false
	}

	if _, ok := sh.sequence.Current(); !ok {
		return false
	}

	return session.DisconnectedAt.IsZero() ||
		now.Sub(session.DisconnectedAt) <= sh.manager.Configuration.Timing.ResumeWindow
}

// discardSession forgets the session and its sequence so the next connection identifies.
func (sh *Shard) discardSession() {
	if sh.session.Swap(nil) != nil {
		sh.Logger.Debug().Msg("Discarded session")
	}

	sh.sequence.Reset()
}

// serve runs a single connection until it ends. It returns nil when the shard
// was closed, a *reconnectError when a new connection should be made and any
// other error when the shard must stop.
func (sh *Shard) serve(conn Transport) error {
	connCtx, cancelConn := context.WithCancel(sh.ctx)
	defer cancelConn()

	sh.connMu.Lock()
	sh.conn = conn
	sh.connMu.Unlock()

	sh.helloReceived.Store(false)
	sh.setStatus(ShardStatusAwaitingHello)

	frames := make(chan inboundFrame, MessageChannelBuffer)

	sh.readerSignal.Started()

	go sh.feed(connCtx, conn, frames)

	helloTimer := time.NewTimer(sh.manager.Configuration.Timing.HelloTimeout)
	defer helloTimer.Stop()

	helloTimeout := helloTimer.C

	for {
		var err error

		select {
		case <-sh.ctx.Done():
			sh.teardown(conn, cancelConn, websocket.StatusNormalClosure)

			return nil
		case <-helloTimeout:
			err = &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: ErrHelloNotReceived}
		case <-sh.heartbeater.C():
			err = sh.heartbeatDue()
		case inbound := <-frames:
			if inbound.err != nil {
				err = sh.transportError(inbound.err)
			} else {
				err = sh.handleFrame(sh.ctx, inbound.frame)
			}
		case gateErr := <-sh.identifyGate:
			err = sh.identifyGateOpened(gateErr)
		}

		if sh.helloReceived.Load() {
			helloTimeout = nil
		}

		if err == nil {
			continue
		}

		if sh.ctx.Err() != nil {
			sh.teardown(conn, cancelConn, websocket.StatusNormalClosure)

			return nil
		}

		var reconnect *reconnectError

		if errors.As(err, &reconnect) {
			sh.teardown(conn, cancelConn, websocket.StatusCode(reconnect.code))
		} else {
			sh.teardown(conn, cancelConn, websocket.StatusNormalClosure)
		}

		return err
	}
}

// inboundFrame is a frame read from the transport, or the error that ended
// the read loop. Errors travel behind any frames read before them.
type inboundFrame struct {
	frame []byte
	err   error
}

// feed reads frames from the transport until it fails or the connection ends.
func (sh *Shard) feed(ctx context.Context, conn Transport, frames chan<- inboundFrame) {
	defer sh.readerSignal.Done()

	for {
		frame, err := conn.ReceiveFrame(ctx)

		select {
		case <-sh.readerSignal.Dead():
			return
		case <-ctx.Done():
			return
		default:
		}

		select {
		case frames <- inboundFrame{frame: frame, err: err}:
		case <-sh.readerSignal.Dead():
			return
		case <-ctx.Done():
			return
		}

		if err != nil {
			return
		}
	}
}

// teardown ends the current connection. The heartbeat is disarmed before the
// transport is closed and the reader is stopped last.
func (sh *Shard) teardown(conn Transport, cancelConn context.CancelFunc, code websocket.StatusCode) {
	sh.heartbeater.Disarm()

	if sh.cancelIdentifyGate != nil {
		sh.cancelIdentifyGate()
		sh.cancelIdentifyGate = nil
	}

	sh.identifyGate = nil

	sh.Logger.Debug().Int("code", int(code)).Msg("Closing websocket connection")

	err := conn.Close(int(code), "")
	if err != nil {
		sh.Logger.Debug().Err(err).Msg("Encountered error closing websocket")
	}

	sh.connMu.Lock()
	sh.conn = nil
	sh.connMu.Unlock()

	cancelConn()

	sh.readerSignal.Close("CLOSE")
	sh.readerSignal.Revive()

	sh.helloReceived.Store(false)

	if session := sh.session.Load(); session != nil && session.DisconnectedAt.IsZero() {
		disconnected := *session
		disconnected.DisconnectedAt = time.Now()
		sh.session.CompareAndSwap(session, &disconnected)
	}

	sh.setStatus(ShardStatusDisconnected)
}

// transportError decides how to continue after the connection failed.
func (sh *Shard) transportError(err error) error {
	var closeErr *CloseError

	if !errors.As(err, &closeErr) {
		return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: err}
	}

	sh.Logger.Warn().Int("code", closeErr.Code).Str("reason", closeErr.Reason).Msg("Shard received closure code")

	if !IsStatusCodeRecoverable(closeErr.Code) {
		return &FatalError{Err: closeCodeError(closeErr)}
	}

	switch closeErr.Code {
	case discord.CloseRateLimited:
		return &reconnectError{
			code:   WebsocketReconnectCloseCode,
			delay:  sh.manager.Configuration.Timing.RateLimitBackoff,
			resume: true,
			reason: closeCodeError(closeErr),
		}
	case discord.CloseInvalidSeq, discord.CloseSessionTimeout:
		sh.discardSession()

		return &reconnectError{code: int(websocket.StatusNormalClosure), reason: closeErr}
	default:
		return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: closeErr}
	}
}

func (sh *Shard) heartbeatDue() error {
	if err := sh.heartbeater.Due(); err != nil {
		sh.Logger.Warn().Msg("Heartbeat was not acknowledged, reconnecting")

		return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: err}
	}

	return sh.heartbeat(sh.ctx)
}

// heartbeat sends the current sequence to the gateway.
func (sh *Shard) heartbeat(ctx context.Context) error {
	err := sh.send(ctx, discord.Heartbeat{Sequence: sh.sequence.pointer()})
	if err != nil {
		return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: fmt.Errorf("failed to heartbeat: %w", err)}
	}

	sh.heartbeater.Sent(time.Now())

	RecordHeartbeat(sh.manager.identifier(), sh.ShardID)

	return nil
}

// handleFrame decodes a frame, runs its gateway handler and queues dispatches.
func (sh *Shard) handleFrame(ctx context.Context, frame []byte) error {
	trace := NewTrace().Set("receive", time.Now().UnixNano())

	sh.Logger.Trace().Msg("<<< " + gotils_strconv.B2S(frame))

	payload, err := discord.DecodePayload(frame)
	if payload == nil {
		RecordDecodeError(sh.manager.identifier(), "malformed")
		sh.queue.pushError(err)

		return nil
	}

	RecordFrame(sh.manager.identifier(), payload.Op.String())

	if err != nil {
		var decodeErr *discord.DecodeError

		if errors.As(err, &decodeErr) && decodeErr.Fatal() {
			RecordDecodeError(sh.manager.identifier(), "unknown_opcode")

			return &FatalError{Err: err}
		}

		RecordDecodeError(sh.manager.identifier(), "malformed")

		sh.Logger.Warn().Err(err).Str("type", payload.Type).Msg("Failed to decode payload")

		sh.observeSequence(payload)
		sh.queue.pushError(err)

		return nil
	}

	sh.observeSequence(payload)

	if handler, ok := gatewayEvents[payload.Op]; ok {
		if err := handler(ctx, sh, payload, trace); err != nil {
			return err
		}
	}

	return nil
}

func (sh *Shard) observeSequence(payload *discord.Payload) {
	if err := sh.sequence.Observe(payload); err != nil {
		sh.Logger.Warn().Err(err).Msg("Received out of order sequence")
		sh.queue.pushError(err)
	}
}

// dispatch queues a dispatch payload for the event provider.
func (sh *Shard) dispatch(payload *discord.Payload, trace *Trace) {
	RecordEvent(sh.manager.identifier(), payload.Type)

	sh.queue.pushPayload(payload, trace)
}

func (sh *Shard) deliver(ctx context.Context, item dispatchItem) {
	provider := sh.manager.eventProvider

	if item.err != nil {
		provider.DispatchError(ctx, sh, item.err)

		return
	}

	item.trace.Set("dispatch", time.Now().UnixNano())

	if err := provider.Dispatch(ctx, sh, item.payload, item.trace); err != nil {
		sh.Logger.Error().Err(err).Str("type", item.payload.Type).Msg("Failed to dispatch event")
	}
}

// startIdentify waits for the identify provider in the background so
// heartbeats continue while the shard is queued.
func (sh *Shard) startIdentify() {
	gateCtx, cancel := context.WithCancel(sh.ctx)

	gate := make(chan error, 1)

	sh.identifyGate = gate
	sh.cancelIdentifyGate = cancel

	sh.Logger.Debug().Msg("Waiting for identify")

	go func() {
		gate <- sh.manager.identifyProvider.Identify(gateCtx, sh)
	}()
}

func (sh *Shard) identifyGateOpened(err error) error {
	sh.identifyGate = nil

	if sh.cancelIdentifyGate != nil {
		sh.cancelIdentifyGate()
		sh.cancelIdentifyGate = nil
	}

	if err != nil {
		return &reconnectError{
			code:   int(websocket.StatusNormalClosure),
			delay:  IdentifyRetry,
			reason: fmt.Errorf("failed to wait for identify: %w", err),
		}
	}

	sh.Logger.Debug().Msg("Sending identify")

	err = sh.send(sh.ctx, sh.identifyPayload())
	if err != nil {
		return &reconnectError{code: int(websocket.StatusNormalClosure), reason: fmt.Errorf("failed to identify: %w", err)}
	}

	return nil
}

func (sh *Shard) identifyPayload() discord.Identify {
	gateway := sh.manager.Configuration.Gateway

	return discord.Identify{
		Token: gateway.Token,
		Properties: discord.IdentifyProperties{
			OS:      runtime.GOOS,
			Browser: "Sandwich " + VERSION,
			Device:  "Sandwich " + VERSION,
		},
		Compress:       discord.Some(gateway.Compress),
		LargeThreshold: discord.Some(gateway.LargeThreshold),
		Shard:          discord.Some([2]int32{sh.ShardID, sh.ShardCount}),
		Presence:       discord.Some(gateway.Presence.UpdateStatus(sh.ShardID, sh.ShardCount)),
		Intents:        sh.manager.Configuration.GatewayIntents(),
	}
}

func (sh *Shard) resume() error {
	session := sh.session.Load()
	sequence, _ := sh.sequence.Current()

	sh.Logger.Debug().Str("session_id", session.ID).Uint64("sequence", sequence).Msg("Sending resume")

	err := sh.send(sh.ctx, discord.Resume{
		Token:     sh.manager.Configuration.Gateway.Token,
		SessionID: session.ID,
		Sequence:  sequence,
	})
	if err != nil {
		return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: fmt.Errorf("failed to resume: %w", err)}
	}

	return nil
}

// Send sends a command to the gateway. Identify and Resume are managed by the
// shard and are rejected.
func (sh *Shard) Send(ctx context.Context, cmd discord.Command) error {
	switch cmd.Op() {
	case discord.GatewayOpIdentify, discord.GatewayOpResume:
		if !sh.helloReceived.Load() {
			return ErrHelloNotReceived
		}

		return ErrLifecycleCommand
	}

	if sh.Status() == ShardStatusClosed {
		return ErrShardClosed
	}

	return sh.send(ctx, cmd)
}

// send encodes and writes a command. Everything except heartbeats is rate limited.
func (sh *Shard) send(ctx context.Context, cmd discord.Command) error {
	data, err := discord.EncodeCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", cmd.Op(), err)
	}

	if cmd.Op() != discord.GatewayOpHeartbeat {
		if err := sh.wsRatelimit.Lock(ctx); err != nil {
			return fmt.Errorf("failed to wait for ratelimit: %w", err)
		}
	}

	sh.connMu.Lock()
	defer sh.connMu.Unlock()

	if sh.conn == nil {
		return ErrShardNotConnected
	}

	if err := sh.conn.SendFrame(ctx, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Op(), err)
	}

	switch cmd.Op() {
	case discord.GatewayOpIdentify, discord.GatewayOpResume:
		sh.Logger.Trace().Str("op", cmd.Op().String()).Msg(">>> <redacted>")
	default:
		sh.Logger.Trace().Msg(">>> " + gotils_strconv.B2S(data))
	}

	return nil
}

// UpdatePresence updates the presence shown for this shard.
func (sh *Shard) UpdatePresence(ctx context.Context, status discord.UpdateStatus) error {
	return sh.Send(ctx, status)
}

func (sh *Shard) UpdateVoiceState(ctx context.Context, voiceState discord.UpdateVoiceState) error {
	return sh.Send(ctx, voiceState)
}

// RequestGuildMembers requests members of a guild and returns the nonce the
// chunks will carry. A nonce is generated when none is given.
func (sh *Shard) RequestGuildMembers(ctx context.Context, request discord.RequestGuildMembers) (string, error) {
	nonce, ok := request.Nonce.Get()
	if !ok || nonce == "" {
		nonce = randomHex(16)
		request.Nonce = discord.Some(nonce)
	}

	return nonce, sh.Send(ctx, request)
}
