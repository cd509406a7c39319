// Package netclient owns the WebSocket link to the game server: dialing,
// fixed-delay reconnect, sending intents and decoding inbound frames into
// protocol events.
package netclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/netpong/internal/protocol"
)

const (
	// DefaultReconnectDelay is the fixed wait between a close and the next dial.
	DefaultReconnectDelay = 3 * time.Second
	writeWait             = 10 * time.Second
	handshakeTimeout      = 10 * time.Second
)

// ErrNotConnected is returned by TrySend while the link is down.
var ErrNotConnected = errors.New("netclient: not connected")

// LinkUp is emitted each time the link opens.
type LinkUp struct{}

func (LinkUp) EventType() string { return "link_up" }

// LinkDown is emitted each time the link closes or a dial fails.
type LinkDown struct {
	Err error
}

func (LinkDown) EventType() string { return "link_down" }

// Conn is the subset of *websocket.Conn the connection uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens a Conn to url.
type Dialer func(ctx context.Context, url string) (Conn, error)

// WebSocketDialer dials with gorilla/websocket.
func WebSocketDialer() Dialer {
	d := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	return func(ctx context.Context, url string) (Conn, error) {
		conn, _, err := d.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Options configure a Connection.
type Options struct {
	URL            string
	ReconnectDelay time.Duration
	Dialer         Dialer
	Logger         *log.Logger
	// After waits before a reconnect. Defaults to time.After.
	After func(time.Duration) <-chan time.Time
}

// Connection keeps a link to the server open for as long as it runs,
// redialing after every close. Handlers run on the connection goroutine.
type Connection struct {
	opts   Options
	logger *log.Logger
	faults *rate.Limiter

	mu       sync.Mutex
	conn     Conn
	handlers []func(protocol.Event)
	cancel   context.CancelFunc
	done     chan struct{}

	dials atomic.Int64
}

// New creates an unconnected Connection.
func New(opts Options) *Connection {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer()
	}
	if opts.After == nil {
		opts.After = time.After
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Connection{
		opts:   opts,
		logger: logger.WithPrefix("net"),
		faults: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// OnEvent registers a handler for every decoded event and link change.
func (c *Connection) OnEvent(h func(protocol.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Connect starts the dial/read/reconnect loop. Calling it again while the
// loop runs does nothing.
func (c *Connection) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

// Close tears the link down and cancels any pending reconnect. It waits for
// the loop to exit. Repeated calls are safe.
func (c *Connection) Close() {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	// Cancel under the lock so serve either publishes its conn before this
	// point or sees the cancellation.
	c.cancel()
	c.cancel = nil
	done, conn := c.done, c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	<-done
}

// Connected reports whether the link is open.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Dials returns how many dial attempts were made.
func (c *Connection) Dials() int {
	return int(c.dials.Load())
}

// Send transmits msg if the link is open and silently drops it otherwise.
func (c *Connection) Send(msg protocol.Message) {
	if err := c.TrySend(msg); err != nil && !errors.Is(err, ErrNotConnected) {
		c.logger.Warn("send failed", "type", msg.MessageType(), "err", err)
	}
}

// TrySend is Send that reports why nothing was sent.
func (c *Connection) TrySend(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("netclient: set deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("netclient: write %s: %w", msg.MessageType(), err)
	}
	return nil
}

func (c *Connection) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		c.dials.Add(1)
		conn, err := c.opts.Dialer(ctx, c.opts.URL)
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return
		}

		if err != nil {
			c.logger.Warn("connect failed", "url", c.opts.URL, "err", err)
		} else {
			err = c.serve(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("connection closed", "err", err)
		}
		c.emit(LinkDown{Err: err})

		c.logger.Info("reconnecting", "in", c.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			return
		case <-c.opts.After(c.opts.ReconnectDelay):
		}
	}
}

// serve publishes conn, emits LinkUp and reads until the link fails.
func (c *Connection) serve(ctx context.Context, conn Conn) error {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return ctx.Err()
	}
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("connected", "url", c.opts.URL)
	c.emit(LinkUp{})

	err := c.readLoop(conn)

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()
	return err
}

func (c *Connection) readLoop(conn Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		evt, err := protocol.Decode(data)
		if err != nil {
			if c.faults.Allow() {
				c.logger.Warn("dropping frame", "err", err)
			}
			continue
		}
		c.emit(evt)
	}
}

func (c *Connection) emit(evt protocol.Event) {
	c.mu.Lock()
	handlers := slices.Clone(c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(evt)
	}
}
