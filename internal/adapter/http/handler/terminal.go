package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/terminal"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/validator"
	"github.com/google/uuid"
)

type TerminalRegistry interface {
	Get(busID string) (*terminal.Controller, error)
}

type DestinationGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
}

type DeviceReporter interface {
	Report(busID string, c models.Coordinate, speedKmh *float64) error
	Deny(busID string)
}

// Terminal exposes the driver terminal of every bus.
type Terminal struct {
	terminals    TerminalRegistry
	destinations DestinationGetter
	device       DeviceReporter
	l            logger.Logger
}

func NewTerminal(terminals TerminalRegistry, destinations DestinationGetter, device DeviceReporter, l logger.Logger) *Terminal {
	return &Terminal{
		terminals:    terminals,
		destinations: destinations,
		device:       device,
		l:            l,
	}
}

// controller resolves the terminal of the bus in the path, answering the request on failure.
func (h *Terminal) controller(ctx context.Context, w http.ResponseWriter, r *http.Request) (*terminal.Controller, context.Context, bool) {
	busID, ok := pathBusID(w, r)
	if !ok {
		h.l.Warn(ctx, "invalid bus id")
		return nil, ctx, false
	}
	ctx = wrap.WithBusID(ctx, busID)

	c, err := h.terminals.Get(busID)
	if err != nil {
		h.l.Warn(ctx, "failed to get terminal", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return nil, ctx, false
	}
	return c, ctx, true
}

// respond writes the terminal snapshot. A failed operation still carries the
// snapshot so the operator sees the message it left behind.
func (h *Terminal) respond(ctx context.Context, w http.ResponseWriter, c *terminal.Controller, opErr error) {
	status := http.StatusOK
	response := envelope{"terminal": c.Snapshot()}
	var headers http.Header
	if opErr != nil {
		status = GetCode(opErr)
		response["error"] = opErr.Error()
		if status == http.StatusServiceUnavailable {
			headers = http.Header{"Retry-After": []string{storeRetryAfter}}
		}
	}

	if err := writeJSON(w, status, response, headers); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetTerminal godoc
// @Summary      Driver terminal state
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  map[string]any
// @Router       /terminals/{bus_id} [get]
func (h *Terminal) GetTerminal(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), "get_terminal"), w, r)
	if !ok {
		return
	}
	h.respond(ctx, w, c, nil)
}

// ReportPosition godoc
// @Summary      Report the driver device position
// @Description  Sends the device geolocation fix, or {"denied": true} when the device refused it
// @Tags         Terminal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string                 true  "Bus ID"
// @Param        body    body  dto.DevicePositionReq  true  "Device fix"
// @Success      200  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /terminals/{bus_id}/position [post]
func (h *Terminal) ReportPosition(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionResolveLocation), w, r)
	if !ok {
		return
	}

	var req dto.DevicePositionReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	if req.Denied {
		h.device.Deny(c.BusID())
		h.l.Info(ctx, "device location denied")
		h.respond(ctx, w, c, nil)
		return
	}

	if err := h.device.Report(c.BusID(), req.ToModel(), req.SpeedKmh); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to store device fix", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	h.respond(ctx, w, c, nil)
}

// SelectDestination godoc
// @Summary      Select a destination and quote the fare
// @Tags         Terminal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string                    true  "Bus ID"
// @Param        body    body  dto.SelectDestinationReq  true  "Destination"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /terminals/{bus_id}/destination [post]
func (h *Terminal) SelectDestination(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionSelectDestination), w, r)
	if !ok {
		return
	}

	var req dto.SelectDestinationReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	dest, err := h.destinations.Get(ctx, uuid.MustParse(req.DestinationID))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get destination", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.respond(ctx, w, c, c.SelectDestination(ctx, *dest))
}

// Retry godoc
// @Summary      Retry the fare quote
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /terminals/{bus_id}/retry [post]
func (h *Terminal) Retry(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionSelectDestination), w, r)
	if !ok {
		return
	}
	h.respond(ctx, w, c, c.Retry(ctx))
}

// Confirm godoc
// @Summary      Confirm the quoted fare
// @Description  Issues the ticket of the quote on screen. The terminal resets by itself shortly after.
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      201  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /terminals/{bus_id}/confirm [post]
func (h *Terminal) Confirm(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionConfirmFare), w, r)
	if !ok {
		return
	}

	ticket, err := c.Confirm(ctx)
	if err != nil {
		h.respond(ctx, w, c, err)
		return
	}

	response := envelope{"terminal": c.Snapshot(), "ticket": ticket}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// Cancel godoc
// @Summary      Cancel the quote on screen
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /terminals/{bus_id}/cancel [post]
func (h *Terminal) Cancel(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionCancelFare), w, r)
	if !ok {
		return
	}
	h.respond(ctx, w, c, c.Cancel(ctx))
}

// Reset godoc
// @Summary      Reset a confirmed terminal
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /terminals/{bus_id}/reset [post]
func (h *Terminal) Reset(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), types.ActionResetTerminal), w, r)
	if !ok {
		return
	}
	h.respond(ctx, w, c, c.Reset(ctx))
}

// DismissError godoc
// @Summary      Dismiss the operator error
// @Tags         Terminal
// @Produce      json
// @Security     BearerAuth
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  map[string]any
// @Router       /terminals/{bus_id}/error [delete]
func (h *Terminal) DismissError(w http.ResponseWriter, r *http.Request) {
	c, ctx, ok := h.controller(wrap.WithAction(r.Context(), "dismiss_error"), w, r)
	if !ok {
		return
	}
	c.DismissError()
	h.respond(ctx, w, c, nil)
}
