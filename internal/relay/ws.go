package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"veilchat/internal/domain"
)

const (
	writeTimeout = 10 * time.Second
	readLimit    = 32 << 20 // matches the relay's frame bound
)

// Conn is the client's single bidirectional channel to the relay. Reads must
// come from one goroutine; Send is safe for concurrent use.
type Conn struct {
	ws *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the relay at base (http(s):// or ws(s)://) and presents the
// bearer token in the query string. A rejected handshake surfaces as
// domain.ErrUnauthorized.
func Dial(ctx context.Context, base, token string) (*Conn, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("parse relay url: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && (resp.StatusCode == 401 || resp.StatusCode == 403) {
			return nil, fmt.Errorf("%w: relay rejected token", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	ws.SetReadLimit(readLimit)
	return &Conn{ws: ws}, nil
}

// Send writes a frame to the relay.
func (c *Conn) Send(f domain.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(f)
}

// Read blocks for the next frame from the relay. Unknown tags are rejected
// here, at the connection boundary, with domain.ErrUnknownFrameType.
func (c *Conn) Read() (domain.Frame, error) {
	var f domain.Frame
	if err := c.ws.ReadJSON(&f); err != nil {
		return domain.Frame{}, err
	}
	if !f.Type.Known() {
		return domain.Frame{}, fmt.Errorf("%w: %q", domain.ErrUnknownFrameType, f.Type)
	}
	return f, nil
}

// Close tears down the transport. Double-close is a no-op.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		c.writeMu.Unlock()
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
