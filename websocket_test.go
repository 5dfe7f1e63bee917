package sandwich

import (
	"bytes"
	"compress/zlib"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func TestGatewayConnectURL(t *testing.T) {
	t.Parallel()

	u, err := gatewayConnectURL("wss://gateway.discord.gg")
	require.NoError(t, err)
	assert.Equal(t, "wss://gateway.discord.gg?encoding=json&v=10", u)

	u, err = gatewayConnectURL("wss://resume.discord.gg/?v=9")
	require.NoError(t, err)
	assert.Equal(t, "wss://resume.discord.gg/?encoding=json&v=10", u)

	_, err = gatewayConnectURL("://bad")
	assert.Error(t, err)
}

func TestWebsocketTransport(t *testing.T) {
	t.Parallel()

	received := make(chan string, 1)
	query := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query <- r.URL.RawQuery

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}

		ctx := r.Context()

		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"op":10,"d":{"heartbeat_interval":45000}}`))

		var compressed bytes.Buffer

		zw := zlib.NewWriter(&compressed)
		_, _ = zw.Write([]byte(`{"op":11,"d":null}`))
		_ = zw.Close()

		_ = conn.Write(ctx, websocket.MessageBinary, compressed.Bytes())

		_, data, err := conn.Read(ctx)
		if err == nil {
			received <- string(data)
		}

		_ = conn.Close(websocket.StatusCode(4004), "Authentication failed.")
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	transport, err := WebsocketDialer{}.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http"))
	require.NoError(t, err)

	assert.Equal(t, "encoding=json&v=10", <-query)

	frame, err := transport.ReceiveFrame(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":10,"d":{"heartbeat_interval":45000}}`, string(frame))

	frame, err = transport.ReceiveFrame(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":11,"d":null}`, string(frame))

	require.NoError(t, transport.SendFrame(ctx, []byte(`{"op":1,"d":null}`)))
	assert.Equal(t, `{"op":1,"d":null}`, <-received)

	_, err = transport.ReceiveFrame(ctx)

	var closeErr *CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, 4004, closeErr.Code)
	assert.Equal(t, "Authentication failed.", closeErr.Reason)

	_ = transport.Close(int(websocket.StatusNormalClosure), "")
}
