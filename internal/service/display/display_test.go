package display

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/notifier"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

var at = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestReduce(t *testing.T) {
	idle := View{BusID: "BUS_001", Mode: ModeIdle}
	quote := models.NewQuoteShown("BUS_001", 9500, "PYG", "Centro", at)
	confirmed := models.NewConfirmed("BUS_001", 9500, "PYG", "Centro", "tkt_1", at)
	reset := models.NewReset("BUS_001", at)

	v := Reduce(idle, quote)
	assert.Equal(t, View{
		BusID:           "BUS_001",
		Mode:            ModeShowingQuote,
		Fare:            9500,
		Currency:        "PYG",
		FormattedFare:   "₲ 9.500",
		DestinationName: "Centro",
	}, v)

	v = Reduce(v, confirmed)
	assert.Equal(t, ModeShowingConfirmed, v.Mode)
	assert.Equal(t, "tkt_1", v.TicketID)

	// reset from every mode
	for _, from := range []View{idle, Reduce(idle, quote), Reduce(idle, confirmed)} {
		assert.Equal(t, idle, Reduce(from, reset))
	}

	// confirmed straight from idle carries everything needed
	v = Reduce(idle, confirmed)
	assert.Equal(t, "Centro", v.DestinationName)
	assert.EqualValues(t, 9500, v.Fare)

	// a new quote replaces the ticket
	v = Reduce(Reduce(idle, confirmed), quote)
	assert.Empty(t, v.TicketID)

	unknown := models.FareEvent{Type: "FARE_REFUND"}
	assert.Equal(t, v, Reduce(v, unknown))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{20000, "PYG", "₲ 20.000"},
		{5000, "PYG", "₲ 5.000"},
		{950, "PYG", "₲ 950"},
		{1234567, "PYG", "₲ 1.234.567"},
		{0, "PYG", "₲ 0"},
		{-1500, "PYG", "₲ -1.500"},
		{1500, "USD", "USD 1.500"},
		{1500, "", "1.500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.currency))
	}
}

func TestDisplay_IgnoresOtherBuses(t *testing.T) {
	d := New("BUS_001")
	var changes []View
	d.OnChange(func(v View) { changes = append(changes, v) })

	d.Apply(models.NewQuoteShown("BUS_002", 9500, "PYG", "Centro", at))
	assert.Equal(t, ModeIdle, d.View().Mode)
	assert.Empty(t, changes)

	d.Apply(models.NewQuoteShown("BUS_001", 9500, "PYG", "Centro", at))
	assert.Equal(t, ModeShowingQuote, d.View().Mode)
	assert.Len(t, changes, 1)
}

func TestDisplay_Unsubscribe(t *testing.T) {
	d := New("BUS_001")
	calls := 0
	stop := d.OnChange(func(View) { calls++ })

	d.Apply(models.NewReset("BUS_001", at))
	stop()
	d.Apply(models.NewReset("BUS_001", at))
	assert.Equal(t, 1, calls)
}

// Quote, confirmation and reset published by a terminal handle are observed
// in that order by a display attached from the start.
func TestBoard_ObservesLifecycleInOrder(t *testing.T) {
	bus := notifier.NewLocalBus()
	ctx := context.Background()

	terminal := notifier.Open(ctx, "", bus, logger.Nop())
	screen := notifier.Open(ctx, "", bus, logger.Nop())
	defer terminal.Close()
	defer screen.Close()

	var (
		mu    sync.Mutex
		modes []Mode
	)
	board := NewBoard(screen, func(v View) {
		mu.Lock()
		modes = append(modes, v.Mode)
		mu.Unlock()
	}, logger.Nop())
	defer board.Close()

	terminal.Publish(ctx, models.NewQuoteShown("BUS_001", 9500, "PYG", "Centro", at))
	terminal.Publish(ctx, models.NewConfirmed("BUS_001", 9500, "PYG", "Centro", "tkt_1", at))
	terminal.Publish(ctx, models.NewReset("BUS_001", at))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(modes) == 3
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []Mode{ModeShowingQuote, ModeShowingConfirmed, ModeIdle}, modes)
	assert.Equal(t, ModeIdle, board.View("BUS_001").Mode)
}

func TestBoard_LateDisplayStaysIdle(t *testing.T) {
	bus := notifier.NewLocalBus()
	ctx := context.Background()

	terminal := notifier.Open(ctx, "", bus, logger.Nop())
	defer terminal.Close()
	terminal.Publish(ctx, models.NewQuoteShown("BUS_001", 9500, "PYG", "Centro", at))

	screen := notifier.Open(ctx, "", bus, logger.Nop())
	defer screen.Close()
	board := NewBoard(screen, nil, logger.Nop())
	defer board.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, ModeIdle, board.View("BUS_001").Mode)
}

type stubEvents struct{ fn func(models.FareEvent) }

func (s *stubEvents) Subscribe(fn func(models.FareEvent)) func() {
	s.fn = fn
	return func() {}
}

func TestBoard_ViewDoesNotRetainUnknownBuses(t *testing.T) {
	events := &stubEvents{}
	board := NewBoard(events, nil, logger.Nop())
	defer board.Close()

	for _, id := range []string{"BUS_404", "junk-1", "junk-2"} {
		v := board.View(id)
		assert.Equal(t, ModeIdle, v.Mode)
		assert.Equal(t, id, v.BusID)
	}
	assert.Zero(t, board.Len())

	events.fn(models.NewQuoteShown("BUS_001", 9500, "PYG", "Centro", at))
	events.fn(models.NewReset("", at))

	assert.Equal(t, 1, board.Len())
	assert.Equal(t, ModeShowingQuote, board.View("BUS_001").Mode)
}
