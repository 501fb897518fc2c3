package ticket_test

import (
	"context"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	farecalc "github.com/Temutjin2k/bus-fare-terminal/internal/service/calculator"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/quote"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/ticket"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/trm"
)

// passTx runs the function without a real transaction.
type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

var _ trm.TxManager = passTx{}

type memQuotes map[uuid.UUID]models.FareQuote

func (m memQuotes) Create(_ context.Context, q *models.FareQuote) error {
	m[q.ID] = *q
	return nil
}

func (m memQuotes) Get(_ context.Context, id uuid.UUID) (*models.FareQuote, error) {
	q, ok := m[id]
	if !ok {
		return nil, types.ErrQuoteNotFound
	}
	return &q, nil
}

var _ ticket.QuoteReader = memQuotes{}

type memTickets struct {
	rows map[string]models.Ticket
	// beforeCreate lets a test slip a competing ticket in before the insert
	beforeCreate func(t *models.Ticket)
}

func newMemTickets() *memTickets {
	return &memTickets{rows: map[string]models.Ticket{}}
}

func (m *memTickets) Create(_ context.Context, t *models.Ticket) error {
	if m.beforeCreate != nil {
		m.beforeCreate(t)
	}
	for _, row := range m.rows {
		if row.QuoteID == t.QuoteID {
			return types.ErrTicketExists
		}
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTickets) Get(_ context.Context, id string) (*models.Ticket, error) {
	t, ok := m.rows[id]
	if !ok {
		return nil, types.ErrTicketNotFound
	}
	return &t, nil
}

func (m *memTickets) GetByQuoteID(_ context.Context, quoteID uuid.UUID) (*models.Ticket, error) {
	for _, t := range m.rows {
		if t.QuoteID == quoteID {
			return &t, nil
		}
	}
	return nil, types.ErrTicketNotFound
}

var _ ticket.TicketRepo = (*memTickets)(nil)

type staticDestinations map[uuid.UUID]*models.Destination

func (s staticDestinations) Get(_ context.Context, id uuid.UUID) (*models.Destination, error) {
	d, ok := s[id]
	if !ok {
		return nil, types.ErrDestinationNotFound
	}
	return d, nil
}

var (
	origin = models.Coordinate{Latitude: -25.2808, Longitude: -57.6312}
	policy = farecalc.Policy{BaseFare: 5000, PerKmRate: 1500, Currency: "PYG", AverageSpeedKmh: 30}
	fixed  = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
)

func storedQuote(quotes memQuotes) models.FareQuote {
	q := models.FareQuote{
		ID:            uuid.New(),
		Origin:        origin,
		DestinationID: uuid.New(),
		Fare:          12345, // deliberately not what the policy would compute
		Currency:      "PYG",
		Breakdown:     models.FareBreakdown{Base: 5000, PerKm: 1500, DistanceKm: 4.9},
		DistanceKm:    4.9,
		EtaMinutes:    10,
		BusID:         "BUS_001",
		DriverID:      "drv-1",
		CreatedAt:     fixed.Add(-time.Minute),
	}
	quotes[q.ID] = q
	return q
}

func TestConfirmQuote_CentroScenario(t *testing.T) {
	centro := &models.Destination{
		ID:         uuid.New(),
		Name:       "Centro",
		Coordinate: models.Coordinate{Latitude: origin.Latitude + 3.0/6371*180/math.Pi, Longitude: origin.Longitude},
		IsActive:   true,
	}
	quotes := memQuotes{}
	tickets := newMemTickets()

	quoteSvc := quote.New(staticDestinations{centro.ID: centro}, quotes, policy, logger.Nop())
	ticketSvc := ticket.New(quotes, tickets, passTx{}, logger.Nop())

	q, err := quoteSvc.CreateQuote(context.Background(), models.QuoteRequest{Origin: origin, DestinationID: centro.ID})
	require.NoError(t, err)
	require.EqualValues(t, 9500, q.Fare)

	tk, err := ticketSvc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	assert.EqualValues(t, 9500, tk.Fare)
	assert.Equal(t, q.Fare, tk.Fare)
	assert.Equal(t, q.Currency, tk.Currency)
	assert.Equal(t, types.TicketStatusConfirmed, tk.Status)
	assert.Equal(t, q.ID, tk.QuoteID)
}

func TestConfirmQuote_CopiesQuoteVerbatim(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	tickets := newMemTickets()
	svc := ticket.New(quotes, tickets, passTx{}, logger.Nop()).WithClock(func() time.Time { return fixed })

	tk, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tk.ID, "tkt_"))
	assert.NotEqual(t, q.ID.String(), strings.TrimPrefix(tk.ID, "tkt_"))
	assert.EqualValues(t, 12345, tk.Fare)
	assert.Equal(t, "PYG", tk.Currency)
	assert.Equal(t, q.Origin, tk.Origin)
	assert.Equal(t, q.DestinationID, tk.DestinationID)
	assert.Equal(t, "BUS_001", tk.BusID)
	assert.Equal(t, "drv-1", tk.DriverID)
	assert.Equal(t, fixed, tk.ConfirmedAt)
	assert.Len(t, tickets.rows, 1)

	// the quote itself is untouched
	assert.Equal(t, q, quotes[q.ID])
}

func TestConfirmQuote_OverridesBusAndDriver(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	svc := ticket.New(quotes, newMemTickets(), passTx{}, logger.Nop())

	tk, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID, BusID: "BUS_002", DriverID: "drv-9"})
	require.NoError(t, err)

	assert.Equal(t, "BUS_002", tk.BusID)
	assert.Equal(t, "drv-9", tk.DriverID)
}

func TestConfirmQuote_UnknownQuote(t *testing.T) {
	tickets := newMemTickets()
	svc := ticket.New(memQuotes{}, tickets, passTx{}, logger.Nop())

	_, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: uuid.New()})

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, tickets.rows)
}

func TestConfirmQuote_IdempotentPerQuote(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	tickets := newMemTickets()
	svc := ticket.New(quotes, tickets, passTx{}, logger.Nop())

	first, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)
	second, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, tickets.rows, 1)
}

func TestConfirmQuote_LosesRaceReturnsWinner(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	tickets := newMemTickets()
	winner := models.Ticket{ID: "tkt_winner", QuoteID: q.ID, Fare: q.Fare, Currency: q.Currency, Status: types.TicketStatusConfirmed}
	tickets.beforeCreate = func(*models.Ticket) {
		tickets.rows[winner.ID] = winner
		tickets.beforeCreate = nil
	}
	svc := ticket.New(quotes, tickets, passTx{}, logger.Nop())

	tk, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	assert.Equal(t, "tkt_winner", tk.ID)
	assert.Len(t, tickets.rows, 1)
}

func TestGetTicket(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	svc := ticket.New(quotes, newMemTickets(), passTx{}, logger.Nop())

	tk, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	got, err := svc.GetTicket(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.Equal(t, *tk, *got)

	_, err = svc.GetTicket(context.Background(), "tkt_nope")
	assert.ErrorIs(t, err, types.ErrTicketNotFound)
}

func TestNewTicketID_UniqueAndOrdered(t *testing.T) {
	ids := make([]string, 0, 500)
	seen := map[string]struct{}{}
	for range 500 {
		id, err := ticket.NewTicketID()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(id, "tkt_"))
		_, dup := seen[id]
		require.False(t, dup, "duplicate ticket id %s", id)
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	assert.True(t, sort.StringsAreSorted(ids), "v7 ids sort by creation")
}

func TestTicketForQuote(t *testing.T) {
	quotes := memQuotes{}
	q := storedQuote(quotes)
	svc := ticket.New(quotes, newMemTickets(), passTx{}, logger.Nop())

	_, err := svc.TicketForQuote(context.Background(), q.ID)
	require.ErrorIs(t, err, types.ErrNotFound)

	tk, err := svc.ConfirmQuote(context.Background(), models.ConfirmRequest{QuoteID: q.ID})
	require.NoError(t, err)

	got, err := svc.TicketForQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)
}
