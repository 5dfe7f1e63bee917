package sandwich

import (
	"errors"
	"fmt"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
)

var (
	ErrShardConnectFailed = errors.New("shard connect failed")
	ErrShardClosed        = errors.New("shard is closed")
	ErrShardNotConnected  = errors.New("shard has no open connection")
	ErrShardAlreadyOpen   = errors.New("shard has already been opened")

	ErrHelloNotReceived  = errors.New("hello has not been received")
	ErrLifecycleCommand  = errors.New("identify and resume are sent by the shard itself")
	ErrHeartbeatTimeout  = errors.New("heartbeat was not acknowledged")
	ErrSessionRejected   = errors.New("session was rejected")
	ErrReconnectRequired = errors.New("gateway requested a reconnect")

	ErrSequenceRegression = errors.New("sequence went backwards")
)

// Errors for close codes the gateway will not accept a reconnect from.
var (
	ErrNotAuthenticated     = errors.New("sent a payload before identifying")
	ErrAuthenticationFailed = errors.New("token is invalid")
	ErrAlreadyAuthenticated = errors.New("sent more than one identify")
	ErrInvalidShard         = errors.New("invalid shard")
	ErrShardingRequired     = errors.New("sharding is required")
	ErrInvalidAPIVersion    = errors.New("invalid gateway version")
	ErrInvalidIntents       = errors.New("invalid intents")
	ErrDisallowedIntents    = errors.New("intents are not enabled for this application")
	ErrRateLimited          = errors.New("gateway rate limited the connection")
)

var (
	ErrReadConfigurationFailure  = errors.New("failed to read configuration")
	ErrLoadConfigurationFailure  = errors.New("failed to load configuration")
	ErrConfigurationMissingToken = errors.New("configuration missing token")
	ErrConfigurationShardIDs     = errors.New("configuration has invalid shard ids")
	ErrUnknownProducer           = errors.New("unknown producer type")
)

// FatalError ends a shard. It is returned from Err and passed to
// EventProvider.DispatchError once the shard has closed.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "shard closed: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// CloseError is returned by a Transport when the gateway closes the connection.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("gateway closed connection with code %d", e.Code)
	}

	return fmt.Sprintf("gateway closed connection with code %d: %s", e.Code, e.Reason)
}

// IsStatusCodeRecoverable reports whether a new connection may follow a close with code.
func IsStatusCodeRecoverable(code int) bool {
	return code != discord.CloseNotAuthenticated &&
		code != discord.CloseAuthenticationFailed &&
		code != discord.CloseAlreadyAuthenticated &&
		code != discord.CloseInvalidShard &&
		code != discord.CloseShardingRequired &&
		code != discord.CloseInvalidAPIVersion &&
		code != discord.CloseInvalidIntents &&
		code != discord.CloseDisallowedIntents
}

// closeCodeError maps a close code to the error it is reported as.
func closeCodeError(closeErr *CloseError) error {
	var sentinel error

	switch closeErr.Code {
	case discord.CloseNotAuthenticated:
		sentinel = ErrNotAuthenticated
	case discord.CloseAuthenticationFailed:
		sentinel = ErrAuthenticationFailed
	case discord.CloseAlreadyAuthenticated:
		sentinel = ErrAlreadyAuthenticated
	case discord.CloseRateLimited:
		sentinel = ErrRateLimited
	case discord.CloseInvalidShard:
		sentinel = ErrInvalidShard
	case discord.CloseShardingRequired:
		sentinel = ErrShardingRequired
	case discord.CloseInvalidAPIVersion:
		sentinel = ErrInvalidAPIVersion
	case discord.CloseInvalidIntents:
		sentinel = ErrInvalidIntents
	case discord.CloseDisallowedIntents:
		sentinel = ErrDisallowedIntents
	default:
		return closeErr
	}

	return fmt.Errorf("%w: %w", sentinel, closeErr)
}
