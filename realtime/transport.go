package realtime

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// TransportHandler receives everything a transport observes. A transport
// calls it from a single goroutine, in arrival order.
type TransportHandler interface {
	// HandleState reports a lifecycle change. err explains why the
	// connection dropped or failed, and is nil otherwise.
	HandleState(state ConnectionState, err error)
	// HandleEvent delivers one named event.
	HandleEvent(ev Event)
}

// Transport is a server-push channel. Run connects to endpoint and keeps the
// stream alive, reconnecting on its own, until ctx is cancelled or the
// server refuses the stream for good. Run returns after its last call to h.
type Transport interface {
	Run(ctx context.Context, endpoint string, h TransportHandler) error
	// Supports reports whether the transport can serve endpoint.
	Supports(endpoint *url.URL) bool
}

// TransportFor picks the transport configured for cfg. It returns nil when
// streaming is disabled or no transport handles the URL scheme.
func TransportFor(cfg Config, httpClient *http.Client) Transport {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil
	}
	var candidates []Transport
	sse := NewSSETransport(httpClient, cfg.RetryInterval)
	ws := NewWebSocketTransport(httpClient, cfg.RetryInterval, cfg.HandshakeTimeout, cfg.ReadTimeout)
	switch cfg.Transport {
	case TransportNone:
		return nil
	case TransportSSE:
		candidates = []Transport{sse}
	case TransportWebSocket:
		candidates = []Transport{ws}
	default:
		candidates = []Transport{sse, ws}
	}
	for _, t := range candidates {
		if t.Supports(u) {
			return t
		}
	}
	return nil
}

// waitRetry sleeps for d or until ctx is done, reporting whether the caller
// should try again.
func waitRetry(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
