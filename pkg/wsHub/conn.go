package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var ErrConnClosed = errors.New("connection closed")

// Conn is a single WebSocket client owned by one user.
// Writes are serialized; reads must come from a single goroutine.
type Conn struct {
	id      uuid.UUID
	ownerID uuid.UUID
	conn    *websocket.Conn

	// readWait bounds the silence between incoming frames in Listen; zero means none.
	readWait time.Duration

	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	once    sync.Once
}

func NewConn(ctx context.Context, ownerID uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		id:      uuid.New(),
		ownerID: ownerID,
		conn:    conn,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() uuid.UUID      { return c.id }
func (c *Conn) OwnerID() uuid.UUID { return c.ownerID }

// SetOwner binds the connection to a user. It must be called before the
// connection is added to a hub.
func (c *Conn) SetOwner(ownerID uuid.UUID) { c.ownerID = ownerID }

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doneCtx.Err() != nil {
		return ErrConnClosed
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

// Ping writes a control frame; a failure means the peer is gone.
func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doneCtx.Err() != nil {
		return ErrConnClosed
	}
	if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// ReadJSON reads the next message, optionally bounded by a deadline (zero = none).
func (c *Conn) ReadJSON(v any, deadline time.Time) error {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	if err := c.conn.ReadJSON(v); err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	return nil
}

// SetPongWait makes the peer prove liveness: a read fails unless a message or
// a pong arrives within wait. Call it before Listen, from the reading goroutine.
func (c *Conn) SetPongWait(wait time.Duration) error {
	c.readWait = wait
	if err := c.conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})
	return nil
}

// Listen reads messages until the peer disconnects or the connection is closed.
func (c *Conn) Listen(handler func(msg map[string]any) error) error {
	for {
		if c.doneCtx.Err() != nil {
			return ErrConnClosed
		}

		var deadline time.Time
		if c.readWait > 0 {
			deadline = time.Now().Add(c.readWait)
		}

		var msg map[string]any
		if err := c.ReadJSON(&msg, deadline); err != nil {
			return err
		}
		if err := handler(msg); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}
