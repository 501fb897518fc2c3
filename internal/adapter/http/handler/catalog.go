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
	"github.com/google/uuid"
)

type DestinationLister interface {
	List(ctx context.Context, near *models.Coordinate, term string) ([]models.NearbyDestination, error)
}

type QuoteReader interface {
	GetQuote(ctx context.Context, id uuid.UUID) (*models.FareQuote, error)
}

type TicketReader interface {
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
}

// Catalog serves the read-only fare data: destinations, quotes and tickets.
type Catalog struct {
	destinations DestinationLister
	quotes       QuoteReader
	tickets      TicketReader
	l            logger.Logger
}

func NewCatalog(destinations DestinationLister, quotes QuoteReader, tickets TicketReader, l logger.Logger) *Catalog {
	return &Catalog{
		destinations: destinations,
		quotes:       quotes,
		tickets:      tickets,
		l:            l,
	}
}

// ListDestinations godoc
// @Summary      List destinations
// @Description  Active destinations filtered by q, nearest first when lat and lng are given
// @Tags         Catalog
// @Produce      json
// @Param        lat  query  number  false  "Reference latitude"
// @Param        lng  query  number  false  "Reference longitude"
// @Param        q    query  string  false  "Search on name, address and zone"
// @Success      200  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /destinations [get]
func (h *Catalog) ListDestinations(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionListDestinations)

	v := validator.New()
	query := dto.ParseDestinationQuery(r.URL.Query(), v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid destination query")
		failedValidationResponse(w, v.Errors)
		return
	}

	list, err := h.destinations.List(ctx, query.Near, query.Term)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list destinations", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"destinations": list}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetQuote godoc
// @Summary      Get a fare quote
// @Tags         Catalog
// @Produce      json
// @Param        quote_id  path  string  true  "Quote ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /quotes/{quote_id} [get]
func (h *Catalog) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionGetQuote)

	quoteID, err := uuid.Parse(r.PathValue("quote_id"))
	if err != nil {
		h.l.Warn(ctx, "invalid quote uuid format")
		errorResponse(w, http.StatusBadRequest, "invalid quote uuid format")
		return
	}
	ctx = wrap.WithQuoteID(ctx, quoteID.String())

	quote, err := h.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get quote", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"quote": quote}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetTicket godoc
// @Summary      Get a ticket
// @Tags         Catalog
// @Produce      json
// @Param        ticket_id  path  string  true  "Ticket ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tickets/{ticket_id} [get]
func (h *Catalog) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionGetTicket)

	ticketID := r.PathValue("ticket_id")
	if ticketID == "" {
		errorResponse(w, http.StatusBadRequest, "ticket id must be provided")
		return
	}
	ctx = wrap.WithTicketID(ctx, ticketID)

	ticket, err := h.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get ticket", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ticket": ticket}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
