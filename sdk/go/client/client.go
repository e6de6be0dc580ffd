// Package client subscribes to the frame stream of an unpossible server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/server"
)

// Frame is re-exported so callers need not import the server package.
type Frame = server.Frame

type Config struct {
	ServerAddr string
	// World selects one world. Empty subscribes to every world.
	World string

	ConnectTimeout       time.Duration
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int

	Logger log.Log
}

func DefaultClientConfig() Config {
	return Config{
		ServerAddr:           "127.0.0.1:8080",
		ConnectTimeout:       10 * time.Second,
		ReconnectInterval:    time.Second,
		MaxReconnectAttempts: 5,
	}
}

type FrameHandler func(Frame) error

type EventHandler func(Event)

type EventType string

const (
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeReconnecting EventType = "reconnecting"
	EventTypeError        EventType = "error"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Error     error
}

// Client receives frames over websocket and hands them to the registered
// FrameHandlers, in order, on a single goroutine.
type Client struct {
	config Config
	logger log.Log
	dialer *websocket.Dialer
	http   *http.Client

	connMu sync.Mutex
	conn   *websocket.Conn

	handlerMu     sync.RWMutex
	frameHandlers []FrameHandler
	eventHandlers map[EventType][]EventHandler

	latest    atomic.Pointer[Frame]
	connected atomic.Bool
	closed    atomic.Bool
	done      chan struct{}
	workers   sync.WaitGroup
}

func NewClient(config Config) (*Client, error) {
	if config.ServerAddr == "" {
		return nil, fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	if config.ConnectTimeout <= 0 {
		return nil, fmt.Errorf("%w: connect timeout must be positive", ErrInvalidConfig)
	}
	if config.Logger == nil {
		config.Logger = log.Nop()
	}
	return &Client{
		config:        config,
		logger:        config.Logger.With(log.String("component", "client"), log.String("world", config.World)),
		dialer:        &websocket.Dialer{HandshakeTimeout: config.ConnectTimeout},
		http:          &http.Client{Timeout: config.ConnectTimeout},
		eventHandlers: make(map[EventType][]EventHandler),
		done:          make(chan struct{}),
	}, nil
}

func (c *Client) OnFrame(handler FrameHandler) {
	c.handlerMu.Lock()
	c.frameHandlers = append(c.frameHandlers, handler)
	c.handlerMu.Unlock()
}

func (c *Client) OnEvent(eventType EventType, handler EventHandler) {
	c.handlerMu.Lock()
	c.eventHandlers[eventType] = append(c.eventHandlers[eventType], handler)
	c.handlerMu.Unlock()
}

// Connect dials the stream and starts receiving. The server replays the
// latest frame of the world right after the handshake.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if c.connected.Load() {
		return ErrAlreadyConnected
	}
	if err := c.dial(ctx); err != nil {
		return err
	}
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		c.receive()
	}()
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint("ws", "/ws"), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.config.ServerAddr, err)
	}
	c.connMu.Lock()
	if c.closed.Load() {
		c.connMu.Unlock()
		_ = conn.Close()
		return ErrClientClosed
	}
	c.conn = conn
	c.connMu.Unlock()
	c.connected.Store(true)

	c.logger.Info("connected", log.String("addr", c.config.ServerAddr))
	c.emit(Event{Type: EventTypeConnected})
	return nil
}

// Latest returns the most recent frame received, if any.
func (c *Client) Latest() (Frame, bool) {
	f := c.latest.Load()
	if f == nil {
		return Frame{}, false
	}
	return *f, true
}

// Snapshot fetches the latest frame of the configured world over HTTP without
// a stream connection.
func (c *Client) Snapshot(ctx context.Context) (Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("http", "/snapshot"), nil)
	if err != nil {
		return Frame{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Frame{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Frame{}, ErrNoSnapshot
	default:
		return Frame{}, fmt.Errorf("snapshot: unexpected status %s", resp.Status)
	}
	var f Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return Frame{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return f, nil
}

func (c *Client) IsConnected() bool { return c.connected.Load() }

// Close disconnects and waits for the receiver to stop. It is safe to call more
// than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)

	var err error
	c.connMu.Lock()
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.conn.Close()
	}
	c.connMu.Unlock()

	c.workers.Wait()
	c.logger.Debug("client closed")
	return err
}

func (c *Client) endpoint(scheme, path string) string {
	u := url.URL{Scheme: scheme, Host: c.config.ServerAddr, Path: path}
	if c.config.World != "" {
		u.RawQuery = url.Values{"world": {c.config.World}}.Encode()
	}
	return u.String()
}

func (c *Client) receive() {
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		err := c.readLoop(conn)
		c.connected.Store(false)
		if c.closed.Load() {
			return
		}

		c.emit(Event{Type: EventTypeDisconnected, Error: err})
		if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			c.logger.Info("server closed the stream")
			return
		}
		c.logger.Warn("stream lost", log.Err(err))
		if !c.reconnect() {
			return
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			return err
		}
		c.latest.Store(&f)
		c.dispatch(f)
	}
}

func (c *Client) reconnect() bool {
	for attempt := 1; attempt <= c.config.MaxReconnectAttempts; attempt++ {
		c.emit(Event{Type: EventTypeReconnecting})
		select {
		case <-c.done:
			return false
		case <-time.After(c.config.ReconnectInterval):
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-c.done:
				cancel()
			case <-ctx.Done():
			}
		}()
		err := c.dial(ctx)
		cancel()
		if err == nil {
			return true
		}
		c.logger.Warn("reconnect failed", log.Int("attempt", attempt), log.Err(err))
	}
	c.emit(Event{Type: EventTypeError, Error: errors.New("reconnect attempts exhausted")})
	return false
}

func (c *Client) dispatch(f Frame) {
	c.handlerMu.RLock()
	handlers := c.frameHandlers
	c.handlerMu.RUnlock()

	for _, h := range handlers {
		if err := h(f); err != nil {
			c.logger.Error("frame handler failed", log.Uint64("frame", f.Frame), log.Err(err))
			c.emit(Event{Type: EventTypeError, Error: err})
		}
	}
}

func (c *Client) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.handlerMu.RLock()
	handlers := c.eventHandlers[e.Type]
	c.handlerMu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
