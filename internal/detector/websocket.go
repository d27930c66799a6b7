package detector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kozaktomas/petface/internal/features"
)

const handshakeTimeout = 10 * time.Second

// WebSocketClient calls the detector over a single persistent WebSocket
// connection: one binary frame with the image out, one JSON reply back. The
// connection is dialed lazily and redialed after any failure. Calls are
// serialized.
type WebSocketClient struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketClient creates a client for the detector at wsURL.
func NewWebSocketClient(wsURL string, timeout time.Duration) *WebSocketClient {
	return &WebSocketClient{
		url:     wsURL,
		timeout: timeout,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Detect sends the image and waits for the detector's reply.
func (c *WebSocketClient) Detect(ctx context.Context, image []byte) ([]features.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	// Unblock reads and writes as soon as the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.NetConn().SetDeadline(time.Now())
	})
	defer stop()

	deadline := c.deadline(ctx)
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.BinaryMessage, image); err != nil {
		c.drop()
		return nil, c.wrapErr(ctx, "error sending frame", err)
	}

	_ = conn.SetReadDeadline(deadline)
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop()
		return nil, c.wrapErr(ctx, "error reading message", err)
	}

	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	return decodeLandmarks(message)
}

// Close closes the current connection, if any. The next Detect redials.
func (c *WebSocketClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// connect returns the live connection, dialing one if needed. Caller holds mu.
func (c *WebSocketClient) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrUnavailable, c.url, err)
	}
	c.conn = conn
	return conn, nil
}

// drop discards a broken connection. Caller holds mu.
func (c *WebSocketClient) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *WebSocketClient) deadline(ctx context.Context) time.Time {
	var d time.Time
	if c.timeout > 0 {
		d = time.Now().Add(c.timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (d.IsZero() || ctxDeadline.Before(d)) {
		d = ctxDeadline
	}
	return d
}

func (c *WebSocketClient) wrapErr(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %s: %v", context.DeadlineExceeded, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, msg, err)
}
