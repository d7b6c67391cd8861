package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	noticeConnecting   = "Connecting to server..."
	noticeReconnecting = "Connection lost. Attempting to reconnect..."
	noticeOpen         = "Connected to chat server."
)

// Client subscribes to a room's event stream and feeds a Board and a Sink.
type Client struct {
	cfg        Config
	board      *Board
	sink       Sink
	logger     Logger
	httpClient *http.Client
	transport  Transport
	now        func() time.Time
	dispatcher Dispatcher

	onStats   func(StatsSample)
	onMessage func(ChatMessage, ChatRecord)
	onError   func(error)
	onState   func(StateEvent)

	mu                sync.Mutex
	sub               *Subscription
	capabilityNoticed bool
}

// NewClient constructs a client. A nil board gets one sized from
// cfg.WindowSize; a nil sink discards output.
func NewClient(cfg Config, board *Board, sink Sink) *Client {
	if board == nil {
		board = NewBoard(cfg.WindowSize)
	}
	if sink == nil {
		sink = NopSink{}
	}
	c := &Client{
		cfg:    cfg,
		board:  board,
		sink:   sink,
		logger: noopLogger{},
		now:    time.Now,
	}
	c.dispatcher.SetOnStats(c.handleStats)
	c.dispatcher.SetOnMessage(c.handleMessage)
	c.dispatcher.SetOnError(c.handleError)
	return c
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// SetTransport replaces the transport chosen from the config.
func (c *Client) SetTransport(t Transport) { c.transport = t }

// SetHTTPClient sets the HTTP client used by the built-in transports.
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

// SetClock overrides the time source used to seed charts.
func (c *Client) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// OnStats registers a callback for every accepted stats sample.
func (c *Client) OnStats(fn func(StatsSample)) { c.onStats = fn }

// OnMessage registers a callback for every accepted chat message.
func (c *Client) OnMessage(fn func(ChatMessage, ChatRecord)) { c.onMessage = fn }

// OnError registers a callback for dropped events.
func (c *Client) OnError(fn func(error)) { c.onError = fn }

// OnStateChanged registers a callback for connection state changes.
func (c *Client) OnStateChanged(fn func(StateEvent)) { c.onState = fn }

// Board returns the board the client feeds.
func (c *Client) Board() *Board { return c.board }

// Open seeds the charts and subscribes to roomID. Without a usable transport
// it posts a one-time notice and returns ErrCapabilityMissing without
// connecting. Events are delivered on a background goroutine until the
// subscription is closed or ctx is cancelled.
func (c *Client) Open(ctx context.Context, roomID string) (*Subscription, error) {
	if err := ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, err := streamEndpoint(c.cfg.URL, roomID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		return nil, ErrAlreadyOpen
	}

	c.seed()

	transport := c.resolveTransport(endpoint)
	if transport == nil {
		if !c.capabilityNoticed {
			c.capabilityNoticed = true
			c.sink.AppendConnectivityNotice(StyleDanger, fmt.Sprintf(
				"This client cannot stream events from %s. Live updates are disabled.", c.cfg.URL))
		}
		c.logger.Warn("no event stream transport", map[string]any{"url": c.cfg.URL, "transport": c.cfg.Transport})
		return nil, ErrCapabilityMissing
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		ctx:      runCtx,
		client:   c,
		room:     roomID,
		endpoint: endpoint,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	c.sub = s
	c.logger.Info("subscribing", map[string]any{"room": roomID, "endpoint": endpoint})
	go s.run(runCtx, transport)
	return s, nil
}

// seed resets every chart group to zero placeholders ending just before now.
func (c *Client) seed() {
	ts := c.now().Unix()
	size := c.board.WindowSize()
	for _, g := range Groups {
		c.board.Window(g).Fill(Seed(size, ts))
		c.sink.InitSeries(g, Seed(size, ts))
	}
}

func (c *Client) resolveTransport(endpoint string) Transport {
	if c.cfg.Transport == TransportNone {
		return nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil
	}
	if c.transport != nil {
		if c.transport.Supports(u) {
			return c.transport
		}
		return nil
	}
	return TransportFor(c.cfg, c.httpClient)
}

func (c *Client) handleStats(sample StatsSample) {
	for _, g := range Groups {
		points := sample.Points(g)
		if err := c.board.Window(g).Push(points); err != nil {
			c.logger.Error("window push failed", map[string]any{"group": string(g), "error": err.Error()})
		}
		c.sink.PushSeries(g, points)
	}
	if c.onStats != nil {
		c.onStats(sample)
	}
}

func (c *Client) handleMessage(msg ChatMessage, rec ChatRecord) {
	c.sink.AppendChatRow(rec.Style, rec.NickHTML, rec.MessageHTML)
	if c.onMessage != nil {
		c.onMessage(msg, rec)
	}
}

func (c *Client) handleError(err error) {
	c.logger.Warn("dropped event", map[string]any{"code": CodeOf(err).String(), "error": err.Error()})
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Client) setState(state ConnectionState, err error, notify bool) {
	old := c.board.setState(state)
	if notify {
		level, text := connectivityNotice(state, err)
		c.sink.AppendConnectivityNotice(level, text)
	}
	fields := map[string]any{"from": old.String(), "to": state.String()}
	if err != nil {
		fields["error"] = err.Error()
	}
	c.logger.Debug("connection state", fields)
	if c.onState != nil {
		c.onState(StateEvent{OldState: old, NewState: state, Error: err})
	}
}

func (c *Client) release(s *Subscription) {
	c.mu.Lock()
	if c.sub == s {
		c.sub = nil
	}
	c.mu.Unlock()
}

func connectivityNotice(state ConnectionState, err error) (Style, string) {
	switch state {
	case StateOpen:
		return StyleSuccess, noticeOpen
	case StateConnecting:
		if err != nil {
			return StyleDanger, noticeReconnecting
		}
		return StyleWarning, noticeConnecting
	default:
		if err != nil {
			return StyleDanger, "Connection closed: " + err.Error()
		}
		return StyleDanger, "Connection closed."
	}
}

// ValidateRoomID accepts 1 to 20 characters of [A-Za-z0-9_-].
func ValidateRoomID(roomID string) error {
	if len(roomID) < 1 || len(roomID) > 20 {
		return NewError(ErrorInvalidConfig, fmt.Sprintf("room id %q must be 1-20 characters", roomID))
	}
	for _, r := range roomID {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return NewError(ErrorInvalidConfig, fmt.Sprintf("room id %q contains %q", roomID, r))
		}
	}
	return nil
}

func streamEndpoint(base, roomID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", WrapError(ErrorInvalidConfig, "invalid URL", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/stream/" + roomID
	u.RawQuery = ""
	return u.String(), nil
}

// Subscription is a live stream for one room.
type Subscription struct {
	ctx      context.Context
	client   *Client
	room     string
	endpoint string
	cancel   context.CancelFunc
	done     chan struct{}
	closing  atomic.Bool
	err      error
}

// Room returns the subscribed room id.
func (s *Subscription) Room() string { return s.room }

// Endpoint returns the stream URL.
func (s *Subscription) Endpoint() string { return s.endpoint }

// State returns the current connection state.
func (s *Subscription) State() ConnectionState { return s.client.board.State() }

// Done is closed once the transport has stopped.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err returns why the transport stopped. It is nil after Close and only
// meaningful once Done is closed.
func (s *Subscription) Err() error {
	<-s.done
	return s.err
}

// Close stops the stream and waits for the transport to exit. No event is
// routed once Close has been called. Close must not be called from a Sink
// method or a client callback.
func (s *Subscription) Close() error {
	s.closing.Store(true)
	s.cancel()
	<-s.done
	return nil
}

func (s *Subscription) run(ctx context.Context, t Transport) {
	defer close(s.done)
	err := t.Run(ctx, s.endpoint, s)
	s.err = err
	if err != nil {
		s.client.logger.Error("stream stopped", map[string]any{"room": s.room, "error": err.Error()})
	}
	if s.client.board.State() != StateClosed {
		s.client.setState(StateClosed, nil, false)
	}
	s.client.release(s)
}

// stopped reports whether the subscription was closed or its context ended.
// Nothing is routed once it returns true.
func (s *Subscription) stopped() bool {
	return s.closing.Load() || s.ctx.Err() != nil
}

// HandleState implements TransportHandler.
func (s *Subscription) HandleState(state ConnectionState, err error) {
	if s.stopped() {
		return
	}
	s.client.setState(state, err, true)
}

// HandleEvent implements TransportHandler.
func (s *Subscription) HandleEvent(ev Event) {
	if s.stopped() {
		return
	}
	s.client.dispatcher.Dispatch(ev)
}
