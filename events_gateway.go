package sandwich

import (
	"context"
	"fmt"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"nhooyr.io/websocket"
)

// GatewayHandler handles a decoded payload on the shard's run loop. Returning
// an error ends the current connection.
type GatewayHandler func(ctx context.Context, shard *Shard, payload *discord.Payload, trace *Trace) error

var gatewayEvents = make(map[discord.GatewayOp]GatewayHandler)

func registerGatewayEvent(op discord.GatewayOp, handler GatewayHandler) {
	gatewayEvents[op] = handler
}

func gatewayOpDispatch(_ context.Context, shard *Shard, payload *discord.Payload, trace *Trace) error {
	trace.Set("handle", time.Now().UnixNano())

	switch event := payload.Event.(type) {
	case *discord.Ready:
		if status := shard.Status(); status != ShardStatusIdentifying {
			shard.Logger.Warn().Str("status", status.String()).Msg("Received ready without identifying, ignoring")
		} else {
			shard.onReady(event)
		}
	case *discord.Resumed:
		if status := shard.Status(); status != ShardStatusResuming {
			shard.Logger.Warn().Str("status", status.String()).Msg("Received resumed without resuming, ignoring")
		} else {
			shard.onResumed()
		}
	}

	shard.dispatch(payload, trace)

	return nil
}

func (sh *Shard) onReady(ready *discord.Ready) {
	sh.session.Store(&Session{
		ID:               ready.SessionID,
		ResumeGatewayURL: ready.ResumeGatewayURL.OrElse(""),
		StartedAt:        time.Now(),
	})

	if application, ok := ready.Application.Get(); ok {
		sh.manager.applicationID.Store(uint64(application.ID))
	}

	sh.identifyAttempts = 0
	sh.resumeAttempts = 0

	sh.Logger.Info().Str("session_id", ready.SessionID).Msg("Shard is ready")

	sh.setStatus(ShardStatusConnected)
}

func (sh *Shard) onResumed() {
	if session := sh.session.Load(); session != nil {
		resumed := *session
		resumed.DisconnectedAt = time.Time{}
		sh.session.Store(&resumed)
	}

	sh.resumeAttempts = 0

	sequence, _ := sh.sequence.Current()

	sh.Logger.Info().Uint64("sequence", sequence).Msg("Shard has resumed")

	sh.setStatus(ShardStatusConnected)
}

func gatewayOpHeartbeat(ctx context.Context, shard *Shard, _ *discord.Payload, _ *Trace) error {
	shard.Logger.Debug().Msg("Gateway requested a heartbeat")

	return shard.heartbeat(ctx)
}

func gatewayOpReconnect(_ context.Context, shard *Shard, _ *discord.Payload, _ *Trace) error {
	shard.Logger.Info().Msg("Shard has been requested to reconnect")

	return &reconnectError{code: WebsocketReconnectCloseCode, resume: true, reason: ErrReconnectRequired}
}

func gatewayOpInvalidSession(_ context.Context, shard *Shard, payload *discord.Payload, _ *Trace) error {
	invalidSession, _ := payload.Event.(*discord.InvalidSession)
	resumable := invalidSession != nil && invalidSession.Resumable

	timing := shard.manager.Configuration.Timing
	delay := randomDuration(timing.InvalidSessionDelayMin, timing.InvalidSessionDelayMax)

	shard.Logger.Warn().Bool("resumable", resumable).Str("status", shard.Status().String()).Msg("Received invalid session")

	if resumable && shard.session.Load() != nil {
		shard.resumeAttempts++

		if shard.resumeAttempts > timing.MaxResumeAttempts {
			shard.Logger.Warn().Int32("attempts", shard.resumeAttempts-1).Msg("Resume failed too many times, identifying")

			shard.resumeAttempts = 0
			shard.discardSession()

			return &reconnectError{code: int(websocket.StatusNormalClosure), delay: delay, reason: ErrSessionRejected}
		}

		return &reconnectError{code: WebsocketReconnectCloseCode, delay: delay, resume: true, reason: ErrSessionRejected}
	}

	if shard.Status() == ShardStatusIdentifying {
		shard.identifyAttempts++

		if shard.identifyAttempts > timing.MaxIdentifyAttempts {
			return &FatalError{Err: fmt.Errorf("%w: identify was rejected %d times", ErrSessionRejected, shard.identifyAttempts)}
		}
	}

	shard.resumeAttempts = 0
	shard.discardSession()

	return &reconnectError{code: int(websocket.StatusNormalClosure), delay: delay, reason: ErrSessionRejected}
}

func gatewayOpHello(_ context.Context, shard *Shard, payload *discord.Payload, _ *Trace) error {
	hello, _ := payload.Event.(*discord.Hello)

	// Hello only starts a connection. A repeat must not re-arm the heartbeat or
	// send a second identify or resume.
	if status := shard.Status(); status != ShardStatusAwaitingHello {
		shard.Logger.Warn().Str("status", status.String()).Msg("Received unexpected hello, ignoring")

		return nil
	}

	interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond

	shard.heartbeatInterval.Store(interval)
	shard.heartbeater.Arm(interval)
	shard.helloReceived.Store(true)

	shard.Logger.Debug().Int64("heartbeat_interval", interval.Milliseconds()).Msg("Received hello")

	if shard.resumable(time.Now()) {
		shard.setStatus(ShardStatusResuming)

		return shard.resume()
	}

	shard.discardSession()
	shard.setStatus(ShardStatusIdentifying)
	shard.startIdentify()

	return nil
}

func gatewayOpHeartbeatACK(_ context.Context, shard *Shard, _ *discord.Payload, _ *Trace) error {
	latency, ok := shard.heartbeater.Ack(time.Now())
	if !ok {
		return nil
	}

	shard.gatewayLatency.Store(latency)

	UpdateGatewayLatency(shard.manager.identifier(), shard.ShardID, latency.Seconds())

	shard.Logger.Trace().Dur("latency", latency).Msg("Heartbeat acknowledged")

	return nil
}

func init() {
	registerGatewayEvent(discord.GatewayOpDispatch, gatewayOpDispatch)
	registerGatewayEvent(discord.GatewayOpHeartbeat, gatewayOpHeartbeat)
	registerGatewayEvent(discord.GatewayOpReconnect, gatewayOpReconnect)
	registerGatewayEvent(discord.GatewayOpInvalidSession, gatewayOpInvalidSession)
	registerGatewayEvent(discord.GatewayOpHello, gatewayOpHello)
	registerGatewayEvent(discord.GatewayOpHeartbeatACK, gatewayOpHeartbeatACK)
}
