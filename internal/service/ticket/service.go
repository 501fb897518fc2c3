package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/trm"
)

const idPrefix = "tkt_"

// NewTicketID returns "tkt_" followed by a UUIDv7, unique and ordered by creation time.
func NewTicketID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return idPrefix + id.String(), nil
}

// Service converts quotes into confirmed tickets.
//
// Confirmation is idempotent per quote: confirming an already confirmed quote
// returns the ticket created the first time and writes nothing.
type Service struct {
	quotes  QuoteReader
	tickets TicketRepo
	trm     trm.TxManager

	newID func() (string, error)
	now   func() time.Time
	log   logger.Logger
}

func New(quotes QuoteReader, tickets TicketRepo, trm trm.TxManager, log logger.Logger) *Service {
	return &Service{
		quotes:  quotes,
		tickets: tickets,
		trm:     trm,
		newID:   NewTicketID,
		now:     time.Now,
		log:     log,
	}
}

// WithClock replaces the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ConfirmQuote creates the ticket of the quote. Fare, currency, origin and destination
// are copied from the quote, never recomputed. BusID and DriverID fall back to the quote's.
func (s *Service) ConfirmQuote(ctx context.Context, req models.ConfirmRequest) (*models.Ticket, error) {
	ctx = wrap.WithAction(ctx, types.ActionConfirmQuote)
	ctx = wrap.WithQuoteID(ctx, req.QuoteID.String())

	var (
		ticket  *models.Ticket
		created bool
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		existing, err := s.tickets.GetByQuoteID(ctx, req.QuoteID)
		if err == nil {
			ticket = existing
			return nil
		}
		if !errors.Is(err, types.ErrTicketNotFound) {
			return fmt.Errorf("lookup ticket by quote: %w", err)
		}

		q, err := s.quotes.Get(ctx, req.QuoteID)
		if err != nil {
			return err
		}

		t, err := s.buildTicket(q, req)
		if err != nil {
			return err
		}

		if err := s.tickets.Create(ctx, t); err != nil {
			return err
		}

		ticket, created = t, true
		return nil
	})

	// A concurrent confirmation won the unique constraint, hand back its ticket.
	if errors.Is(err, types.ErrTicketExists) {
		ticket, err = s.tickets.GetByQuoteID(ctx, req.QuoteID)
	}

	if err != nil {
		metrics.RecordTicket("error", 0)
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithTicketID(ctx, ticket.ID)
	if created {
		metrics.RecordTicket("created", ticket.Fare)
		s.log.Info(ctx, "quote confirmed", "fare", ticket.Fare, "currency", ticket.Currency)
	} else {
		metrics.RecordTicket("existing", ticket.Fare)
		s.log.Info(ctx, "quote already confirmed, returning existing ticket")
	}

	return ticket, nil
}

func (s *Service) buildTicket(q *models.FareQuote, req models.ConfirmRequest) (*models.Ticket, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate ticket id: %w", err)
	}

	t := &models.Ticket{}
	if err := copier.Copy(t, q); err != nil {
		return nil, fmt.Errorf("copy quote into ticket: %w", err)
	}

	t.ID = id
	t.QuoteID = q.ID
	t.Status = types.TicketStatusConfirmed
	t.ConfirmedAt = s.now().UTC()
	if req.BusID != "" {
		t.BusID = req.BusID
	}
	if req.DriverID != "" {
		t.DriverID = req.DriverID
	}

	return t, nil
}

func (s *Service) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ctx = wrap.WithAction(ctx, types.ActionGetTicket)
	ctx = wrap.WithTicketID(ctx, id)

	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return t, nil
}

// TicketForQuote returns the ticket a quote was confirmed into.
func (s *Service) TicketForQuote(ctx context.Context, quoteID uuid.UUID) (*models.Ticket, error) {
	ctx = wrap.WithAction(ctx, types.ActionGetTicket)
	ctx = wrap.WithQuoteID(ctx, quoteID.String())

	t, err := s.tickets.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return t, nil
}
