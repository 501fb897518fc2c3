package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/bus-fare-terminal/internal/service/display"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
	ws "github.com/Temutjin2k/bus-fare-terminal/pkg/wsHub"
	"github.com/gorilla/websocket"
)

type DisplaySource interface {
	View(busID string) display.View
}

// Display serves the passenger displays. Live updates are pushed to the
// websocket connections of the hub, grouped by bus id.
type Display struct {
	displays DisplaySource
	hub      *ws.ConnectionHub
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewDisplay(displays DisplaySource, hub *ws.ConnectionHub, l logger.Logger) *Display {
	return &Display{
		displays: displays,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		l: l,
	}
}

// GetDisplay godoc
// @Summary      Passenger display state
// @Tags         Display
// @Produce      json
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  display.View
// @Router       /displays/{bus_id} [get]
func (h *Display) GetDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_display")

	busID, ok := pathBusID(w, r)
	if !ok {
		return
	}

	view := h.displays.View(busID)
	if err := writeJSON(w, http.StatusOK, envelope{"display": view}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// Subscribe godoc
// @Summary      Live passenger display
// @Description  Upgrades to a websocket that receives the current view, then every change of it
// @Tags         Display
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      101
// @Router       /ws/displays/{bus_id} [get]
func (h *Display) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "subscribe_display")

	busID, ok := pathBusID(w, r)
	if !ok {
		return
	}
	ctx = wrap.WithBusID(ctx, busID)

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := ws.NewConn(context.Background(), busID, raw)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register display connection", err)
		_ = conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues("display").Inc()
	defer func() {
		metrics.WebSocketConnectionsGauge.WithLabelValues("display").Dec()
		_ = h.hub.Delete(conn.ID())
		h.l.Debug(ctx, "display disconnected", "conn_id", conn.ID())
	}()

	if err := conn.Send(h.displays.View(busID)); err != nil {
		h.l.Warn(ctx, "failed to send current view", "error", err.Error())
		return
	}
	h.l.Info(ctx, "display connected", "conn_id", conn.ID())

	// Displays only listen. Reading keeps control frames flowing until the client leaves.
	if err := conn.Listen(nil); err != nil {
		h.l.Debug(ctx, "display connection closed", "reason", err.Error())
	}
}

// ViewPusher returns the change listener of the display board: it sends
// every view to the connections of its bus.
func ViewPusher(hub *ws.ConnectionHub, l logger.Logger) func(display.View) {
	return func(v display.View) {
		if n := hub.Broadcast(v.BusID, v); n > 0 {
			l.Debug(wrap.WithBusID(context.Background(), v.BusID), "display view pushed", "connections", n, "mode", v.Mode)
		}
	}
}
