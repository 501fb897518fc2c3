package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

const DefaultAutoResetDelay = 5 * time.Second

type Deps struct {
	Quotes    QuoteCreator
	Tickets   QuoteConfirmer
	Locator   *Locator
	Publisher Publisher
	Logger    logger.Logger
}

// Controller is the fare state machine of one driver terminal.
//
// Operations are serialized: a call waits until the previous one settled.
// Snapshot never waits, it shows the state held while a store call is in
// flight.
type Controller struct {
	busID string
	deps  Deps
	delay time.Duration
	now   func() time.Time

	op sync.Mutex // serializes operations

	mu         sync.RWMutex // guards everything below
	snap       Snapshot
	generation uint64
	timer      *time.Timer
}

func NewController(busID string, deps Deps, autoResetDelay time.Duration) *Controller {
	if autoResetDelay <= 0 {
		autoResetDelay = DefaultAutoResetDelay
	}
	return &Controller{
		busID: busID,
		deps:  deps,
		delay: autoResetDelay,
		now:   time.Now,
		snap:  Snapshot{BusID: busID, State: StateIdle},
	}
}

func (c *Controller) BusID() string { return c.busID }

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Controller) logCtx(ctx context.Context, action string) context.Context {
	ctx = wrap.WithAction(ctx, action)
	ctx = wrap.WithBusID(ctx, c.busID)
	if u := models.UserFromContext(ctx); !u.IsAnonymous() {
		ctx = wrap.WithDriverID(ctx, u.ID)
	}
	return ctx
}

func driverID(ctx context.Context) string {
	if u := models.UserFromContext(ctx); !u.IsAnonymous() {
		return u.ID
	}
	return ""
}

// update mutates the snapshot under lock and records the transition.
func (c *Controller) update(fn func(s *Snapshot)) {
	c.mu.Lock()
	from := c.snap.State
	fn(&c.snap)
	to := c.snap.State
	c.mu.Unlock()

	if from != to {
		metrics.RecordTransition(string(from), string(to))
	}
}

func (c *Controller) fail(ctx context.Context, msg string, err error) error {
	c.update(func(s *Snapshot) { s.LastError = operatorMessage(err) })
	c.deps.Logger.Warn(ctx, msg, "error", err.Error())
	return err
}

func (c *Controller) invalid(ctx context.Context, op string) error {
	state := c.Snapshot().State
	return c.fail(ctx, "rejected terminal operation",
		wrap.Error(ctx, fmt.Errorf("%w: %s from %s", types.ErrInvalidTransition, op, state)))
}

// stopTimerLocked cancels a pending auto-reset. Caller holds mu.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// SelectDestination starts a new fare flow towards d from any state.
// Without any usable origin the state is left untouched.
func (c *Controller) SelectDestination(ctx context.Context, d models.Destination) error {
	c.op.Lock()
	defer c.op.Unlock()
	ctx = c.logCtx(ctx, types.ActionSelectDestination)

	origin, source, err := c.deps.Locator.Resolve(ctx, c.busID)
	if err != nil {
		c.update(func(s *Snapshot) { s.LocationNotice = locationNotice })
		return c.fail(ctx, "no origin for fare", err)
	}

	dest := d
	c.update(func(s *Snapshot) {
		c.stopTimerLocked()
		c.generation++
		*s = Snapshot{
			BusID:        c.busID,
			State:        StateDestinationSelected,
			Destination:  &dest,
			Origin:       &origin,
			OriginSource: source,
		}
	})

	return c.requestQuote(ctx, origin, dest)
}

// Retry asks for a quote again after a failed attempt.
func (c *Controller) Retry(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	ctx = c.logCtx(ctx, types.ActionSelectDestination)

	snap := c.Snapshot()
	if snap.State != StateDestinationSelected || snap.Destination == nil {
		return c.invalid(ctx, "retry")
	}

	origin, source, err := c.deps.Locator.Resolve(ctx, c.busID)
	if err != nil {
		c.update(func(s *Snapshot) { s.LocationNotice = locationNotice })
		return c.fail(ctx, "no origin for fare", err)
	}
	c.update(func(s *Snapshot) {
		s.Origin, s.OriginSource = &origin, source
		s.LastError, s.LocationNotice = "", ""
	})

	return c.requestQuote(ctx, origin, *snap.Destination)
}

func (c *Controller) requestQuote(ctx context.Context, origin models.Coordinate, dest models.Destination) error {
	q, err := c.deps.Quotes.CreateQuote(ctx, models.QuoteRequest{
		Origin:        origin,
		DestinationID: dest.ID,
		BusID:         c.busID,
		DriverID:      driverID(ctx),
	})
	if err != nil {
		return c.fail(ctx, "quote request failed", err)
	}

	c.update(func(s *Snapshot) {
		s.State = StateQuoteReady
		s.Quote = q
	})
	c.deps.Publisher.Publish(ctx, models.NewQuoteShown(c.busID, q.Fare, q.Currency, dest.Name, c.now().UTC()))

	c.deps.Logger.Info(wrap.WithQuoteID(ctx, q.ID.String()), "fare quoted", "fare", q.Fare, "destination", dest.Name)
	return nil
}

// Confirm turns the quote on screen into a ticket. The terminal returns to
// Idle by itself after the auto-reset delay.
func (c *Controller) Confirm(ctx context.Context) (*models.Ticket, error) {
	c.op.Lock()
	defer c.op.Unlock()
	ctx = c.logCtx(ctx, types.ActionConfirmFare)

	snap := c.Snapshot()
	if snap.State != StateQuoteReady || snap.Quote == nil {
		return nil, c.invalid(ctx, "confirm")
	}

	c.update(func(s *Snapshot) {
		s.State = StateConfirming
		s.LastError = ""
	})

	t, err := c.deps.Tickets.ConfirmQuote(ctx, models.ConfirmRequest{
		QuoteID:  snap.Quote.ID,
		BusID:    c.busID,
		DriverID: driverID(ctx),
	})
	if err != nil {
		c.update(func(s *Snapshot) { s.State = StateQuoteReady })
		return nil, c.fail(ctx, "confirmation failed", err)
	}

	var destName string
	if snap.Destination != nil {
		destName = snap.Destination.Name
	}

	c.update(func(s *Snapshot) {
		s.State = StateConfirmed
		s.Ticket = t
		c.scheduleResetLocked()
	})
	c.deps.Publisher.Publish(ctx, models.NewConfirmed(c.busID, t.Fare, t.Currency, destName, t.ID, c.now().UTC()))

	c.deps.Logger.Info(wrap.WithTicketID(ctx, t.ID), "fare confirmed", "fare", t.Fare)
	return t, nil
}

// scheduleResetLocked arms the auto-reset for the current flow. Caller holds mu.
func (c *Controller) scheduleResetLocked() {
	c.stopTimerLocked()
	gen := c.generation
	c.timer = time.AfterFunc(c.delay, func() { c.autoReset(gen) })
}

func (c *Controller) autoReset(gen uint64) {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.RLock()
	stale := gen != c.generation || c.snap.State != StateConfirmed
	c.mu.RUnlock()
	if stale {
		return
	}

	ctx := c.logCtx(context.Background(), types.ActionResetTerminal)
	c.toIdle(ctx)
	c.deps.Logger.Debug(ctx, "terminal reset after confirmation")
}

// Cancel abandons the quote on screen.
func (c *Controller) Cancel(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	ctx = c.logCtx(ctx, types.ActionCancelFare)

	switch c.Snapshot().State {
	case StateQuoteReady, StateDestinationSelected:
	default:
		return c.invalid(ctx, "cancel")
	}

	c.toIdle(ctx)
	return nil
}

// Reset returns a confirmed terminal to Idle without waiting for the timer.
func (c *Controller) Reset(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	ctx = c.logCtx(ctx, types.ActionResetTerminal)

	if c.Snapshot().State != StateConfirmed {
		return c.invalid(ctx, "reset")
	}

	c.toIdle(ctx)
	return nil
}

func (c *Controller) toIdle(ctx context.Context) {
	c.update(func(s *Snapshot) {
		c.stopTimerLocked()
		c.generation++
		*s = Snapshot{BusID: c.busID, State: StateIdle, LocationNotice: s.LocationNotice}
	})
	c.deps.Publisher.Publish(ctx, models.NewReset(c.busID, c.now().UTC()))
}

// DismissError clears the last operator error. The location notice stays
// until an origin is found.
func (c *Controller) DismissError() {
	c.update(func(s *Snapshot) { s.LastError = "" })
}

// Stop cancels a pending auto-reset.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.generation++
}
