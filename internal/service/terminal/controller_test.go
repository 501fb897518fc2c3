package terminal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

type mockQuotes struct {
	CreateQuoteFunc func(ctx context.Context, req models.QuoteRequest) (*models.FareQuote, error)
	calls           atomic.Int32
}

func (m *mockQuotes) CreateQuote(ctx context.Context, req models.QuoteRequest) (*models.FareQuote, error) {
	m.calls.Add(1)
	return m.CreateQuoteFunc(ctx, req)
}

type mockTickets struct {
	ConfirmQuoteFunc func(ctx context.Context, req models.ConfirmRequest) (*models.Ticket, error)
}

func (m *mockTickets) ConfirmQuote(ctx context.Context, req models.ConfirmRequest) (*models.Ticket, error) {
	return m.ConfirmQuoteFunc(ctx, req)
}

type mockFeed struct {
	GetCurrentLocationFunc func(ctx context.Context, busID string) (*models.Coordinate, error)

	mu       sync.Mutex
	recorded []models.Coordinate
}

func (m *mockFeed) RecordLocation(_ context.Context, _ string, c models.Coordinate, _, _ *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, c)
	return nil
}

func (m *mockFeed) GetCurrentLocation(ctx context.Context, busID string) (*models.Coordinate, error) {
	if m.GetCurrentLocationFunc == nil {
		return nil, nil
	}
	return m.GetCurrentLocationFunc(ctx, busID)
}

type mockDevice struct {
	fix *models.DeviceFix
}

func (m *mockDevice) Latest(string) (*models.DeviceFix, bool) {
	return m.fix, m.fix != nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.FareEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.FareEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []types.FareEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.FareEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var (
	_ QuoteCreator   = (*mockQuotes)(nil)
	_ QuoteConfirmer = (*mockTickets)(nil)
	_ LocationFeed   = (*mockFeed)(nil)
	_ DeviceFixes    = (*mockDevice)(nil)
	_ Publisher      = (*recordingPublisher)(nil)
)

var (
	here   = models.Coordinate{Latitude: -25.2808, Longitude: -57.6312}
	centro = models.Destination{ID: uuid.New(), Name: "Centro", Coordinate: models.Coordinate{Latitude: -25.2538, Longitude: -57.6312}, IsActive: true}
)

type fixture struct {
	quotes  *mockQuotes
	tickets *mockTickets
	feed    *mockFeed
	device  *mockDevice
	pub     *recordingPublisher
	ctrl    *Controller
}

func newFixture(t *testing.T, fallback *models.Coordinate, delay time.Duration) *fixture {
	t.Helper()

	f := &fixture{
		quotes: &mockQuotes{CreateQuoteFunc: func(_ context.Context, req models.QuoteRequest) (*models.FareQuote, error) {
			return &models.FareQuote{
				ID:            uuid.New(),
				Origin:        req.Origin,
				DestinationID: req.DestinationID,
				Fare:          9500,
				Currency:      "PYG",
				BusID:         req.BusID,
			}, nil
		}},
		tickets: &mockTickets{ConfirmQuoteFunc: func(_ context.Context, req models.ConfirmRequest) (*models.Ticket, error) {
			return &models.Ticket{ID: "tkt_" + uuid.NewString(), QuoteID: req.QuoteID, Fare: 9500, Currency: "PYG", Status: types.TicketStatusConfirmed}, nil
		}},
		feed:   &mockFeed{},
		device: &mockDevice{},
		pub:    &recordingPublisher{},
	}

	deps := Deps{
		Quotes:    f.quotes,
		Tickets:   f.tickets,
		Locator:   NewLocator(f.device, f.feed, fallback, logger.Nop()),
		Publisher: f.pub,
		Logger:    logger.Nop(),
	}
	f.ctrl = NewController("BUS_001", deps, delay)
	t.Cleanup(f.ctrl.Stop)
	return f
}

func TestController_NoLocationStaysIdle(t *testing.T) {
	f := newFixture(t, nil, time.Minute)

	err := f.ctrl.SelectDestination(context.Background(), centro)

	require.ErrorIs(t, err, types.ErrLocationUnavailable)
	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.NotEmpty(t, snap.LocationNotice)
	assert.Nil(t, snap.Destination)
	assert.Zero(t, f.quotes.calls.Load(), "no quote without an origin")
	assert.Empty(t, f.pub.kinds())

	// the notice survives dismissal and goes away once an origin is known
	f.ctrl.DismissError()
	assert.NotEmpty(t, f.ctrl.Snapshot().LocationNotice)

	f.device.fix = &models.DeviceFix{Coordinate: here}
	require.NoError(t, f.ctrl.SelectDestination(context.Background(), centro))
	assert.Empty(t, f.ctrl.Snapshot().LocationNotice)
}

func TestController_FullFlowWithAutoReset(t *testing.T) {
	f := newFixture(t, nil, 30*time.Millisecond)
	f.device.fix = &models.DeviceFix{Coordinate: here}
	ctx := models.WithUser(context.Background(), &models.User{ID: "drv-7", Role: "DRIVER"})

	var quoted models.QuoteRequest
	create := f.quotes.CreateQuoteFunc
	f.quotes.CreateQuoteFunc = func(ctx context.Context, req models.QuoteRequest) (*models.FareQuote, error) {
		quoted = req
		return create(ctx, req)
	}

	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))
	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateQuoteReady, snap.State)
	assert.Equal(t, SourceDevice, snap.OriginSource)
	assert.Equal(t, here, quoted.Origin)
	assert.Equal(t, "BUS_001", quoted.BusID)
	assert.Equal(t, "drv-7", quoted.DriverID)
	assert.Equal(t, []models.Coordinate{here}, f.feed.recorded, "device fix goes into the feed")

	ticket, err := f.ctrl.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Quote.ID, ticket.QuoteID)
	assert.Equal(t, StateConfirmed, f.ctrl.Snapshot().State)

	require.Eventually(t, func() bool { return len(f.pub.kinds()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateIdle, f.ctrl.Snapshot().State)
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventConfirmed, types.EventReset}, f.pub.kinds())

	confirmed := f.pub.events[1]
	assert.Equal(t, ticket.ID, confirmed.TicketID)
	assert.Equal(t, "Centro", confirmed.DestinationName)
	assert.Equal(t, "BUS_001", confirmed.BusID)
}

func TestController_FallbackSources(t *testing.T) {
	lastKnown := models.Coordinate{Latitude: -25.30, Longitude: -57.60}
	home := models.Coordinate{Latitude: -25.2637, Longitude: -57.5759}

	f := newFixture(t, &home, time.Minute)
	f.feed.GetCurrentLocationFunc = func(context.Context, string) (*models.Coordinate, error) {
		return &lastKnown, nil
	}
	require.NoError(t, f.ctrl.SelectDestination(context.Background(), centro))
	assert.Equal(t, SourceLastKnown, f.ctrl.Snapshot().OriginSource)
	assert.Equal(t, lastKnown, *f.ctrl.Snapshot().Origin)

	f.feed.GetCurrentLocationFunc = func(context.Context, string) (*models.Coordinate, error) {
		return nil, types.ErrStoreUnavailable
	}
	require.NoError(t, f.ctrl.SelectDestination(context.Background(), centro))
	assert.Equal(t, SourceDefault, f.ctrl.Snapshot().OriginSource)
	assert.Equal(t, home, *f.ctrl.Snapshot().Origin)
}

func TestController_QuoteFailureKeepsDestination(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	create := f.quotes.CreateQuoteFunc
	f.quotes.CreateQuoteFunc = func(context.Context, models.QuoteRequest) (*models.FareQuote, error) {
		return nil, types.ErrStoreUnavailable
	}

	err := f.ctrl.SelectDestination(context.Background(), centro)
	require.ErrorIs(t, err, types.ErrStoreUnavailable)

	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateDestinationSelected, snap.State)
	assert.Equal(t, centro.ID, snap.Destination.ID)
	assert.NotEmpty(t, snap.LastError)
	assert.Empty(t, f.pub.kinds())

	f.quotes.CreateQuoteFunc = create
	require.NoError(t, f.ctrl.Retry(context.Background()))
	snap = f.ctrl.Snapshot()
	assert.Equal(t, StateQuoteReady, snap.State)
	assert.Empty(t, snap.LastError)
}

func TestController_UnknownDestination(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	f.quotes.CreateQuoteFunc = func(context.Context, models.QuoteRequest) (*models.FareQuote, error) {
		return nil, types.ErrDestinationNotFound
	}

	err := f.ctrl.SelectDestination(context.Background(), centro)
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, StateDestinationSelected, f.ctrl.Snapshot().State)

	f.ctrl.DismissError()
	assert.Empty(t, f.ctrl.Snapshot().LastError)
}

func TestController_ConfirmFailureRevertsToQuoteReady(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	confirm := f.tickets.ConfirmQuoteFunc
	f.tickets.ConfirmQuoteFunc = func(context.Context, models.ConfirmRequest) (*models.Ticket, error) {
		return nil, types.ErrStoreUnavailable
	}

	require.NoError(t, f.ctrl.SelectDestination(context.Background(), centro))
	quote := f.ctrl.Snapshot().Quote

	_, err := f.ctrl.Confirm(context.Background())
	require.ErrorIs(t, err, types.ErrStoreUnavailable)
	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateQuoteReady, snap.State)
	assert.Equal(t, quote, snap.Quote)
	assert.NotEmpty(t, snap.LastError)

	f.tickets.ConfirmQuoteFunc = confirm
	_, err = f.ctrl.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, f.ctrl.Snapshot().State)
}

func TestController_CancelAndGuards(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	ctx := context.Background()

	assert.ErrorIs(t, f.ctrl.Cancel(ctx), types.ErrInvalidTransition)
	_, err := f.ctrl.Confirm(ctx)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
	assert.ErrorIs(t, f.ctrl.Reset(ctx), types.ErrInvalidTransition)
	assert.ErrorIs(t, f.ctrl.Retry(ctx), types.ErrInvalidTransition)

	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))
	require.NoError(t, f.ctrl.Cancel(ctx))

	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Quote)
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventReset}, f.pub.kinds())
}

func TestController_ManualReset(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	ctx := context.Background()

	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))
	_, err := f.ctrl.Confirm(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, f.ctrl.Cancel(ctx), types.ErrInvalidTransition)

	require.NoError(t, f.ctrl.Reset(ctx))
	assert.Equal(t, StateIdle, f.ctrl.Snapshot().State)
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventConfirmed, types.EventReset}, f.pub.kinds())
}

func TestController_StaleTimerDoesNotResetNewFlow(t *testing.T) {
	f := newFixture(t, &here, 40*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))
	_, err := f.ctrl.Confirm(ctx)
	require.NoError(t, err)

	// next passenger before the timer fires
	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateQuoteReady, f.ctrl.Snapshot().State)
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventConfirmed, types.EventQuoteShown}, f.pub.kinds())
}

func TestController_ReselectFromQuoteReady(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	ctx := context.Background()
	lambare := models.Destination{ID: uuid.New(), Name: "Lambaré", Coordinate: models.Coordinate{Latitude: -25.3468, Longitude: -57.6065}, IsActive: true}

	require.NoError(t, f.ctrl.SelectDestination(ctx, centro))
	first := f.ctrl.Snapshot().Quote
	require.NotNil(t, first)

	require.NoError(t, f.ctrl.SelectDestination(ctx, lambare))

	snap := f.ctrl.Snapshot()
	assert.Equal(t, StateQuoteReady, snap.State)
	require.NotNil(t, snap.Quote)
	assert.NotEqual(t, first.ID, snap.Quote.ID)
	assert.Equal(t, lambare.ID, snap.Quote.DestinationID)
	require.NotNil(t, snap.Destination)
	assert.Equal(t, "Lambaré", snap.Destination.Name)
	assert.EqualValues(t, 2, f.quotes.calls.Load())

	// the passenger display goes straight to the new quote, no Reset in between
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventQuoteShown}, f.pub.kinds())
	f.pub.mu.Lock()
	assert.Equal(t, "Lambaré", f.pub.events[1].DestinationName)
	f.pub.mu.Unlock()
}

func TestController_OperationsAreSerialized(t *testing.T) {
	f := newFixture(t, &here, time.Minute)
	ctx := context.Background()

	inFlight := make(chan struct{})
	release := make(chan struct{})
	create := f.quotes.CreateQuoteFunc
	f.quotes.CreateQuoteFunc = func(ctx context.Context, req models.QuoteRequest) (*models.FareQuote, error) {
		close(inFlight)
		<-release
		return create(ctx, req)
	}

	selectDone := make(chan error, 1)
	go func() { selectDone <- f.ctrl.SelectDestination(ctx, centro) }()
	<-inFlight

	assert.Equal(t, StateDestinationSelected, f.ctrl.Snapshot().State, "state before the call is shown while in flight")

	cancelDone := make(chan error, 1)
	go func() { cancelDone <- f.ctrl.Cancel(ctx) }()

	select {
	case <-cancelDone:
		t.Fatal("cancel ran while the quote request was in flight")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-selectDone)
	require.NoError(t, <-cancelDone)

	assert.Equal(t, StateIdle, f.ctrl.Snapshot().State)
	assert.Equal(t, []types.FareEventType{types.EventQuoteShown, types.EventReset}, f.pub.kinds())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(Deps{Logger: logger.Nop()}, time.Minute)
	defer reg.Close()

	a, err := reg.Get("BUS_001")
	require.NoError(t, err)
	b, err := reg.Get(" BUS_001 ")
	require.NoError(t, err)
	c, err := reg.Get("BUS_002")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, StateIdle, c.Snapshot().State)

	_, err = reg.Get("")
	assert.True(t, errors.Is(err, types.ErrValidation))
}
