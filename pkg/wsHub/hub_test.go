package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

// serve upgrades every request and registers it in hub under the group given
// in the query string.
func serve(t *testing.T, hub *ConnectionHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewConn(context.Background(), r.URL.Query().Get("group"), raw)
		if err := hub.Add(c); err != nil {
			_ = c.Close()
			return
		}
		go func() {
			_ = c.Listen(nil)
			_ = hub.Delete(c.ID())
		}()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, group string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?group=" + group
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHub_BroadcastReachesOnlyGroup(t *testing.T) {
	hub := NewConnHub(logger.Nop())
	srv := serve(t, hub)

	a1 := dial(t, srv, "BUS_001")
	a2 := dial(t, srv, "BUS_001")
	b := dial(t, srv, "BUS_002")
	require.Eventually(t, func() bool { return hub.Len() == 3 }, time.Second, 5*time.Millisecond)

	sent := hub.Broadcast("BUS_001", map[string]any{"state": "idle"})
	assert.Equal(t, 2, sent)

	for _, c := range []*websocket.Conn{a1, a2} {
		var msg map[string]any
		require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
		require.NoError(t, c.ReadJSON(&msg))
		assert.Equal(t, "idle", msg["state"])
	}

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	var msg map[string]any
	assert.Error(t, b.ReadJSON(&msg))
}

func TestHub_ClientDisconnectIsRemoved(t *testing.T) {
	hub := NewConnHub(logger.Nop())
	srv := serve(t, hub)

	c := dial(t, srv, "BUS_001")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.Broadcast("BUS_001", "x"))
}

func TestHub_Close(t *testing.T) {
	hub := NewConnHub(logger.Nop())
	srv := serve(t, hub)

	c := dial(t, srv, "BUS_001")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.Len())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.ErrorIs(t, hub.Add(&Conn{id: "late"}), ErrHubClosed)
	assert.ErrorIs(t, hub.Add(nil), ErrEmptyConn)
	assert.ErrorIs(t, hub.Delete("missing"), ErrConnIsNotFound)
}
