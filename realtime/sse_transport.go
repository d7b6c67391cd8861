package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/vovakirdan/realtime-sdk/realtime/internal"
)

// SSETransport consumes a text/event-stream over HTTP and reconnects the way
// a browser EventSource does: network failures and stream ends lead back to
// connecting after the retry delay, while a non-200 answer or a wrong content
// type closes the stream for good.
type SSETransport struct {
	client *http.Client
	retry  time.Duration
}

// NewSSETransport returns an SSE transport. A nil client uses a client with no
// overall timeout, which a long-lived stream needs.
func NewSSETransport(client *http.Client, retry time.Duration) *SSETransport {
	if client == nil {
		client = &http.Client{}
	}
	return &SSETransport{client: client, retry: retry}
}

func (t *SSETransport) Supports(u *url.URL) bool {
	return u != nil && (u.Scheme == "http" || u.Scheme == "https")
}

func (t *SSETransport) Run(ctx context.Context, endpoint string, h TransportHandler) error {
	retry := t.retry
	lastEventID := ""
	announced := false
	for {
		if !announced {
			h.HandleState(StateConnecting, nil)
		}
		announced = false
		resp, err := t.connect(ctx, endpoint, lastEventID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var refused *streamRefusedError
			if errors.As(err, &refused) {
				err = WrapError(ErrorConnection, "stream refused", err)
				h.HandleState(StateClosed, err)
				return err
			}
			h.HandleState(StateConnecting, err)
			announced = true
			if !waitRetry(ctx, retry) {
				return nil
			}
			continue
		}

		h.HandleState(StateOpen, nil)
		scanner := internal.NewSSEScanner(resp.Body)
		for scanner.Next() {
			ev := scanner.Event()
			name := ev.Type
			if name == "" {
				name = EventMessage
			}
			h.HandleEvent(Event{Name: name, ID: ev.ID, Data: ev.Data})
		}
		_ = resp.Body.Close()
		lastEventID = scanner.LastEventID()
		if r := scanner.Retry(); r > 0 {
			retry = r
		}
		if ctx.Err() != nil {
			return nil
		}

		cause := scanner.Err()
		if cause == nil {
			cause = io.EOF
		}
		h.HandleState(StateConnecting, WrapError(ErrorConnection, "stream ended", cause))
		announced = true
		if !waitRetry(ctx, retry) {
			return nil
		}
	}
}

func (t *SSETransport) connect(ctx context.Context, endpoint, lastEventID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &streamRefusedError{msg: "create request: " + err.Error()}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, WrapError(ErrorConnection, "connect", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &streamRefusedError{msg: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/event-stream" {
		_ = resp.Body.Close()
		return nil, &streamRefusedError{msg: fmt.Sprintf("unexpected content type %q", resp.Header.Get("Content-Type"))}
	}
	return resp, nil
}

// streamRefusedError means the server answered but will not stream; the
// transport stops instead of retrying.
type streamRefusedError struct {
	msg string
}

func (e *streamRefusedError) Error() string { return e.msg }
