package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
	ErrHubClosed      = errors.New("hub is closed")
)

// ConnectionHub keeps the open websocket connections, grouped by the entity
// they follow. A group may hold any number of connections.
type ConnectionHub struct {
	clients map[string]*Conn
	closed  bool
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[string]*Conn),
		l:       l,
	}
}

func (h *ConnectionHub) Add(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.clients[c.id] = c
	return nil
}

// Delete removes and closes a connection.
func (h *ConnectionHub) Delete(id string) error {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := c.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_connection_delete")
		h.l.Warn(ctx, "failed to close conn", "conn_id", id, "group", c.group, "err", err.Error())
	}
	return nil
}

// Broadcast sends msg to every connection of group and returns how many
// received it. Connections that fail are dropped.
func (h *ConnectionHub) Broadcast(group string, msg any) int {
	targets := h.Group(group)

	sent := 0
	for _, c := range targets {
		if err := c.Send(msg); err != nil {
			ctx := wrap.WithAction(context.Background(), "ws_broadcast")
			h.l.Debug(ctx, "dropping unreachable websocket client", "conn_id", c.id, "group", group, "err", err.Error())
			_ = h.Delete(c.id)
			continue
		}
		sent++
	}
	return sent
}

// Group returns the connections of one group.
func (h *ConnectionHub) Group(group string) []*Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Conn, 0)
	for _, c := range h.clients {
		if c.group == group {
			out = append(out, c)
		}
	}
	return out
}

func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection concurrently and rejects new ones.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	h.closed = true
	clients := make([]*Conn, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*Conn)
	h.mu.Unlock()

	var wg conc.WaitGroup
	for _, c := range clients {
		wg.Go(func() { _ = c.Close() })
	}
	wg.Wait()

	h.l.Info(ctx, "all websocket connections closed gracefully", "count", len(clients))
}
