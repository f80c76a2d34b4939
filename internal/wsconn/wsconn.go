// Package wsconn provides a websocket client with automatic reconnection,
// used by the venue streaming feeds.
package wsconn

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/backoff"
)

// State is the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Config holds websocket client configuration.
type Config struct {
	URL           string
	Name          string // feed name for logs
	Backoff       backoff.Policy
	MaxReconnects int // 0 = infinite
	PingInterval  time.Duration
	// OnConnect runs after every successful (re)connect, before messages
	// flow. Feeds use it to resubscribe.
	OnConnect func(ctx context.Context, send func([]byte) error) error
}

// DefaultConfig returns sensible defaults for exchange feeds.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:          url,
		Name:         name,
		Backoff:      backoff.Default(),
		PingInterval: 30 * time.Second,
	}
}

// Client is a reconnecting websocket client. Messages received from the
// peer are delivered on Messages; the channel closes when Run returns.
type Client struct {
	cfg Config
	log *slog.Logger

	mu       sync.RWMutex
	state    State
	conn     *websocket.Conn
	messages chan []byte
}

// New creates a client. Run must be called to start it.
func New(cfg Config, log *slog.Logger) *Client {
	return &Client{
		cfg:      cfg,
		log:      log,
		state:    StateDisconnected,
		messages: make(chan []byte, 256),
	}
}

// Messages returns the inbound message channel.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Send writes a text message on the current connection.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return apperror.New(apperror.CodeWebSocketClosed,
			apperror.WithContext(c.cfg.Name+": not connected"))
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.External(apperror.CodeWebSocketConnection, c.cfg.Name, err)
	}
	return nil
}

// Run connects and pumps messages until ctx is cancelled, reconnecting
// with backoff after every drop. It returns ctx.Err() on cancellation or a
// WEBSOCKET_CONNECTION error when the reconnect budget is exhausted.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.messages)
	defer c.setState(StateDisconnected)

	for attempt := 0; ; {
		c.setState(StateConnecting)
		err := c.connectAndRead(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("websocket dropped",
			slog.String("feed", c.cfg.Name),
			slog.Any("error", err))

		attempt++
		if c.cfg.MaxReconnects > 0 && attempt > c.cfg.MaxReconnects {
			return apperror.External(apperror.CodeWebSocketConnection,
				c.cfg.Name+": reconnect budget exhausted", err)
		}
		c.setState(StateReconnecting)
		if err := c.cfg.Backoff.Sleep(ctx, attempt-1); err != nil {
			return err
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	conn, _, err := websocket.Dial(dialCtx, c.cfg.URL, nil)
	cancel()
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	c.mu.Lock()
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	c.log.Info("websocket connected", slog.String("feed", c.cfg.Name))

	if c.cfg.OnConnect != nil {
		send := func(msg []byte) error {
			return conn.Write(ctx, websocket.MessageText, msg)
		}
		if err := c.cfg.OnConnect(ctx, send); err != nil {
			return err
		}
	}

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	if c.cfg.PingInterval > 0 {
		go c.pingLoop(readCtx, conn)
	}

	for {
		_, data, err := conn.Read(readCtx)
		if err != nil {
			return err
		}
		select {
		case c.messages <- data:
		case <-readCtx.Done():
			return readCtx.Err()
		}
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(c.cfg.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
