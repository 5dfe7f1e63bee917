package sandwich

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/WelcomerTeam/czlib"
	"nhooyr.io/websocket"
)

const (
	GatewayVersion  = "10"
	GatewayEncoding = "json"

	WebsocketReadLimit = 512 << 20
)

// WebsocketDialer dials the gateway over a websocket.
type WebsocketDialer struct {
	Options *websocket.DialOptions
}

func (d WebsocketDialer) Dial(ctx context.Context, gatewayURL string) (Transport, error) {
	u, err := gatewayConnectURL(gatewayURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, u, d.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	conn.SetReadLimit(WebsocketReadLimit)

	return &websocketTransport{conn: conn}, nil
}

// gatewayConnectURL adds the version and encoding parameters to the gateway url.
func gatewayConnectURL(gatewayURL string) (string, error) {
	u, err := url.Parse(gatewayURL)
	if err != nil {
		return "", fmt.Errorf("invalid gateway url: %w", err)
	}

	query := u.Query()
	query.Set("v", GatewayVersion)
	query.Set("encoding", GatewayEncoding)
	u.RawQuery = query.Encode()

	return u.String(), nil
}

type websocketTransport struct {
	conn *websocket.Conn
}

func (t *websocketTransport) SendFrame(ctx context.Context, frame []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, frame)
}

func (t *websocketTransport) ReceiveFrame(ctx context.Context) ([]byte, error) {
	messageType, data, err := t.conn.Read(ctx)
	if err != nil {
		var closeError websocket.CloseError

		if errors.As(err, &closeError) {
			return nil, &CloseError{Code: int(closeError.Code), Reason: closeError.Reason}
		}

		return nil, err
	}

	if messageType == websocket.MessageBinary {
		data, err = czlib.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
	}

	return data, nil
}

func (t *websocketTransport) Close(code int, reason string) error {
	err := t.conn.Close(websocket.StatusCode(code), reason)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
