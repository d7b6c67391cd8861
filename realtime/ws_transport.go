package realtime

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/realtime-sdk/realtime/internal"
)

// WebSocketTransport receives the same named events as the SSE endpoint,
// framed as JSON Envelope text messages. It redials after the retry delay
// whenever the socket drops.
type WebSocketTransport struct {
	client           *http.Client
	retry            time.Duration
	handshakeTimeout time.Duration
	readTimeout      time.Duration
}

// NewWebSocketTransport returns a websocket transport. Set a timeout to 0 to
// disable it.
func NewWebSocketTransport(client *http.Client, retry, handshakeTimeout, readTimeout time.Duration) *WebSocketTransport {
	return &WebSocketTransport{
		client:           client,
		retry:            retry,
		handshakeTimeout: handshakeTimeout,
		readTimeout:      readTimeout,
	}
}

func (t *WebSocketTransport) Supports(u *url.URL) bool {
	if u == nil {
		return false
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
		return true
	default:
		return false
	}
}

func (t *WebSocketTransport) Run(ctx context.Context, endpoint string, h TransportHandler) error {
	announced := false
	for {
		if !announced {
			h.HandleState(StateConnecting, nil)
		}
		announced = false

		conn, err := t.dial(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			h.HandleState(StateConnecting, WrapError(ErrorConnection, "dial", err))
			announced = true
			if !waitRetry(ctx, t.retry) {
				return nil
			}
			continue
		}

		h.HandleState(StateOpen, nil)
		err = t.readLoop(ctx, conn, h)
		_ = conn.Close(websocket.StatusNormalClosure, "client close")
		if ctx.Err() != nil {
			return nil
		}
		if websocket.CloseStatus(err) == websocket.StatusPolicyViolation {
			err = WrapError(ErrorConnection, "stream refused", err)
			h.HandleState(StateClosed, err)
			return err
		}
		h.HandleState(StateConnecting, WrapError(ErrorConnection, "stream ended", err))
		announced = true
		if !waitRetry(ctx, t.retry) {
			return nil
		}
	}
}

func (t *WebSocketTransport) dial(ctx context.Context, endpoint string) (*internal.Conn, error) {
	dialCtx := ctx
	if t.handshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, t.handshakeTimeout)
		defer cancel()
	}
	ws, _, err := websocket.Dial(dialCtx, endpoint, &websocket.DialOptions{HTTPClient: t.client})
	if err != nil {
		return nil, err
	}
	return internal.NewConn(ws, t.readTimeout), nil
}

// readLoop delivers frames until the socket fails. A text frame that is not
// an envelope is passed on as a message event so the decoder reports it.
func (t *WebSocketTransport) readLoop(ctx context.Context, conn *internal.Conn, h TransportHandler) error {
	for {
		typ, data, err := conn.ReadFrame(ctx)
		if err != nil {
			if isExpectedDisconnect(ctx, err) {
				return io.EOF
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.HandleEvent(Event{Name: EventMessage, Data: string(data)})
			continue
		}
		h.HandleEvent(env.toEvent())
	}
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
