package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/metrics"
	"github.com/google/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps every live connection, grouped by owner.
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	byOwner map[uuid.UUID]map[uuid.UUID]struct{}
	l       logger.Logger
	mu      sync.RWMutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		byOwner: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		l:       l,
	}
}

// Add registers a connection. One owner may hold several connections.
func (h *ConnectionHub) Add(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	owned, ok := h.byOwner[c.ownerID]
	if !ok {
		owned = make(map[uuid.UUID]struct{})
		h.byOwner[c.ownerID] = owned
	}
	owned[c.id] = struct{}{}
	metrics.WebSocketConnectionsGauge.Inc()

	return nil
}

// Delete closes and forgets a connection.
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		h.forget(c)
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := c.Close(); err != nil {
		h.l.Debug(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn", "conn_id", id, "err", err.Error())
	}
	return nil
}

// forget must be called with mu held.
func (h *ConnectionHub) forget(c *Conn) {
	delete(h.clients, c.id)
	if owned, ok := h.byOwner[c.ownerID]; ok {
		delete(owned, c.id)
		if len(owned) == 0 {
			delete(h.byOwner, c.ownerID)
		}
	}
	metrics.WebSocketConnectionsGauge.Dec()
}

// SendToOwner delivers msg to every connection of ownerID and returns how many received it.
// Connections that fail to receive are dropped.
func (h *ConnectionHub) SendToOwner(ctx context.Context, ownerID uuid.UUID, msg any) int {
	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.byOwner[ownerID]))
	for id := range h.byOwner[ownerID] {
		targets = append(targets, h.clients[id])
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.Send(msg); err != nil {
			h.l.Warn(wrap.WithAction(ctx, "ws_send"), "dropping unreachable connection",
				"conn_id", c.id, "err", err.Error())
			_ = h.Delete(c.id)
			continue
		}
		delivered++
	}
	return delivered
}

// Count returns the number of live connections.
func (h *ConnectionHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes every websocket connection.
func (h *ConnectionHub) Close() {
	h.mu.RLock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully")
}
