package discord

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrMalformedPayload = errors.New("malformed payload")

	ErrMissingField        = errors.New("missing required field")
	ErrInvalidSnowflake    = errors.New("invalid snowflake")
	ErrInvalidIntents      = errors.New("invalid intents")
	ErrComponentDepth      = errors.New("component nesting too deep")
	ErrInvalidHeartbeat    = errors.New("invalid heartbeat interval")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrInvalidCommandField = errors.New("invalid command field")
)

// DecodeError is returned when an inbound payload cannot be turned into an event.
// Kind is ErrUnknownOpcode or ErrMalformedPayload.
type DecodeError struct {
	Kind error
	Op   GatewayOp
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Type != "" && e.Err != nil:
		return fmt.Sprintf("%v (op %d, %s): %v", e.Kind, e.Op, e.Type, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v (op %d): %v", e.Kind, e.Op, e.Err)
	default:
		return fmt.Sprintf("%v (op %d)", e.Kind, e.Op)
	}
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Fatal reports whether the error indicates protocol drift rather than a single bad payload.
func (e *DecodeError) Fatal() bool {
	return errors.Is(e.Kind, ErrUnknownOpcode)
}

func malformed(op GatewayOp, eventType string, err error) *DecodeError {
	return &DecodeError{Kind: ErrMalformedPayload, Op: op, Type: eventType, Err: err}
}
