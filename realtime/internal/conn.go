package internal

import (
	"context"
	"time"

	"github.com/coder/websocket"
)

// Conn wraps websocket.Conn with a per-frame read timeout.
type Conn struct {
	ws          *websocket.Conn
	readTimeout time.Duration
}

func NewConn(ws *websocket.Conn, readTimeout time.Duration) *Conn {
	ws.SetReadLimit(1 << 20)
	return &Conn{ws: ws, readTimeout: readTimeout}
}

// ReadFrame returns the next data frame. A zero read timeout waits as long
// as ctx allows.
func (c *Conn) ReadFrame(ctx context.Context) (websocket.MessageType, []byte, error) {
	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}
	return c.ws.Read(ctx)
}

func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}
