package sandwich

import (
	"context"
)

// Transport is a single connection to the gateway. SendFrame may be called
// concurrently with ReceiveFrame but not with itself.
type Transport interface {
	SendFrame(ctx context.Context, frame []byte) error
	// ReceiveFrame returns the next text frame. A close from the gateway is
	// returned as a *CloseError.
	ReceiveFrame(ctx context.Context) ([]byte, error)
	Close(code int, reason string) error
}

// Dialer opens new transports.
type Dialer interface {
	Dial(ctx context.Context, gatewayURL string) (Transport, error)
}
