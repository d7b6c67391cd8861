package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func TestWebSocketTransportDeliversEnvelopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream/hn" {
			http.NotFound(w, r)
			return
		}
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()
		ctx := r.Context()
		_ = wsjson.Write(ctx, ws, map[string]any{"event": "stats", "id": "1", "data": map[string]any{"timestamp": 1000}})
		_ = wsjson.Write(ctx, ws, map[string]any{"data": map[string]any{"nick": "a", "message": "b"}})
		_ = ws.Write(ctx, websocket.MessageText, []byte("not an envelope"))
		_ = ws.Write(ctx, websocket.MessageBinary, []byte{0x01})
		_ = wsjson.Write(ctx, ws, map[string]any{"event": "presence", "data": []int{1}})
		<-ctx.Done()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream/hn"
	tr := NewWebSocketTransport(nil, time.Minute, 5*time.Second, 0)
	h := newChanHandler()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx, wsURL, h) }()

	if s := h.nextState(t); s.NewState != StateConnecting {
		t.Fatalf("first state = %+v", s)
	}
	if s := h.nextState(t); s.NewState != StateOpen {
		t.Fatalf("second state = %+v", s)
	}

	ev := h.nextEvent(t)
	if ev.Name != EventStats || ev.ID != "1" || ev.Data != `{"timestamp":1000}` {
		t.Fatalf("stats event = %+v", ev)
	}
	ev = h.nextEvent(t)
	if ev.Name != EventMessage || ev.Data != `{"message":"b","nick":"a"}` {
		t.Fatalf("unnamed event = %+v", ev)
	}
	ev = h.nextEvent(t)
	if ev.Name != EventMessage || ev.Data != "not an envelope" {
		t.Fatalf("raw frame event = %+v", ev)
	}
	ev = h.nextEvent(t)
	if ev.Name != "presence" {
		t.Fatalf("unknown event = %+v", ev)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWebSocketTransportPolicyViolationCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_ = ws.Close(websocket.StatusPolicyViolation, "room closed")
	}))
	defer srv.Close()

	h := newChanHandler()
	err := NewWebSocketTransport(srv.Client(), time.Millisecond, time.Second, 0).Run(context.Background(), srv.URL+"/stream/hn", h)
	if CodeOf(err) != ErrorConnection {
		t.Fatalf("Run err = %v", err)
	}
	if s := h.nextState(t); s.NewState != StateConnecting {
		t.Fatalf("first state = %+v", s)
	}
	if s := h.nextState(t); s.NewState != StateOpen {
		t.Fatalf("second state = %+v", s)
	}
	if s := h.nextState(t); s.NewState != StateClosed {
		t.Fatalf("final state = %+v", s)
	}
}

func TestClientOverWebSocket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()
		_ = wsjson.Write(r.Context(), ws, map[string]any{"event": "message", "data": map[string]string{"nick": "eve", "message": "1 < 2"}})
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	sink := &recordingSink{}
	c := NewClient(cfg, nil, sink)
	got := make(chan ChatRecord, 1)
	c.OnMessage(func(_ ChatMessage, rec ChatRecord) { got <- rec })

	sub, err := c.Open(context.Background(), "hn")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sub.Close()

	select {
	case rec := <-got:
		if rec.NickHTML != "eve" || rec.MessageHTML != "1 &lt; 2" {
			t.Fatalf("record = %+v", rec)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}
