package display

import (
	"slices"
	"sync"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

// Display holds the view of one bus and notifies listeners on every change.
type Display struct {
	mu        sync.RWMutex
	view      View
	listeners []listener
	seq       uint64
}

type listener struct {
	id uint64
	fn func(View)
}

func New(busID string) *Display {
	return &Display{view: View{BusID: busID, Mode: ModeIdle}}
}

func (d *Display) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Apply reduces the event into the view. Events of other buses are ignored.
func (d *Display) Apply(e models.FareEvent) {
	d.mu.Lock()
	if e.BusID != "" && e.BusID != d.view.BusID {
		d.mu.Unlock()
		return
	}
	d.view = Reduce(d.view, e)
	view := d.view
	fns := make([]func(View), len(d.listeners))
	for i, l := range d.listeners {
		fns[i] = l.fn
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

// OnChange registers fn for every view change and returns a function removing it.
func (d *Display) OnChange(fn func(View)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	id := d.seq
	d.listeners = append(d.listeners, listener{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.listeners = slices.DeleteFunc(d.listeners, func(l listener) bool { return l.id == id })
	}
}
