package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/bus-fare-terminal/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/validator"
)

type LocationService interface {
	RecordLocation(ctx context.Context, busID string, c models.Coordinate, speedKmh, headingDegrees *float64) error
	CurrentSample(ctx context.Context, busID string) (*models.BusLocationSample, error)
	FleetPositions(ctx context.Context) ([]models.BusLocationSample, error)
}

type Tracker struct {
	feed LocationService
	l    logger.Logger
}

func NewTracker(feed LocationService, l logger.Logger) *Tracker {
	return &Tracker{
		feed: feed,
		l:    l,
	}
}

// RecordLocation godoc
// @Summary      Report a bus position
// @Tags         Tracker
// @Accept       json
// @Produce      json
// @Param        bus_id  path  string                 true  "Bus ID"
// @Param        body    body  dto.RecordLocationReq  true  "Position"
// @Success      201  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /buses/{bus_id}/locations [post]
func (h *Tracker) RecordLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionRecordLocation)

	busID, ok := pathBusID(w, r)
	if !ok {
		h.l.Warn(ctx, "invalid bus id")
		return
	}
	ctx = wrap.WithBusID(ctx, busID)

	var req dto.RecordLocationReq
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

	if err := h.feed.RecordLocation(ctx, busID, req.ToModel(), req.SpeedKmh, req.HeadingDegrees); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to record location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"status": "recorded"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// CurrentLocation godoc
// @Summary      Latest position of a bus
// @Tags         Tracker
// @Produce      json
// @Param        bus_id  path  string  true  "Bus ID"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  map[string]any
// @Router       /buses/{bus_id}/location [get]
func (h *Tracker) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCurrentLocation)

	busID, ok := pathBusID(w, r)
	if !ok {
		return
	}
	ctx = wrap.WithBusID(ctx, busID)

	sample, err := h.feed.CurrentSample(ctx, busID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get current location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	if sample == nil {
		errorResponse(w, http.StatusNotFound, types.ErrNoLocationSamples.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"location": dto.NewLocationResponse(*sample)}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// FleetPositions godoc
// @Summary      Latest position of every bus
// @Tags         Tracker
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /buses/locations [get]
func (h *Tracker) FleetPositions(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionFleetPositions)

	samples, err := h.feed.FleetPositions(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get fleet positions", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"buses": dto.NewLocationResponses(samples)}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
