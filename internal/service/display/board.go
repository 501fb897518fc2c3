package display

import (
	"context"
	"sync"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

type Subscriber interface {
	Subscribe(fn func(models.FareEvent)) (unsubscribe func())
}

// Board keeps one display per bus, fed from a fare event channel.
// A bus is tracked from its first event on, so a display opened late stays
// Idle until the next one.
type Board struct {
	mu       sync.Mutex
	displays map[string]*Display
	onChange func(View)
	stop     func()
	log      logger.Logger
}

// NewBoard subscribes to events. onChange, when set, receives every view change.
func NewBoard(events Subscriber, onChange func(View), log logger.Logger) *Board {
	b := &Board{
		displays: make(map[string]*Display),
		onChange: onChange,
		log:      log,
	}
	b.stop = events.Subscribe(b.dispatch)
	return b
}

func (b *Board) dispatch(e models.FareEvent) {
	if e.BusID == "" {
		b.log.Debug(context.Background(), "fare event without bus id ignored", "type", e.Type)
		return
	}
	d := b.display(e.BusID)
	d.Apply(e)

	ctx := wrap.WithBusID(context.Background(), e.BusID)
	b.log.Debug(ctx, "display updated", "mode", d.View().Mode)
}

// display returns the display of the bus, creating it on the first event for it.
func (b *Board) display(busID string) *Display {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, ok := b.displays[busID]
	if !ok {
		d = New(busID)
		if b.onChange != nil {
			d.OnChange(b.onChange)
		}
		b.displays[busID] = d
	}
	return d
}

// View returns what the display of the bus shows. Buses that never had an
// event read as Idle and are not retained, so public reads cannot grow the board.
func (b *Board) View(busID string) View {
	b.mu.Lock()
	d, ok := b.displays[busID]
	b.mu.Unlock()

	if !ok {
		return View{BusID: busID, Mode: ModeIdle}
	}
	return d.View()
}

// Len is the number of buses the board has seen events for.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.displays)
}

func (b *Board) Close() {
	if b.stop != nil {
		b.stop()
	}
}
