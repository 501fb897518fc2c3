package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

const DefaultChannelName = "fare-updates"

const publishTimeout = 3 * time.Second

// envelope is the payload carried by every transport.
type envelope struct {
	Origin string           `json:"origin"`
	Event  models.FareEvent `json:"event"`
}

type Handler = func(models.FareEvent)

type subscription struct {
	id uint64
	fn Handler
}

// Channel is one surface's handle on a named fare event channel.
// Events published through a handle reach every other open handle of the same
// name and never its own subscribers. A handle without a working transport
// is a silent no-op.
type Channel struct {
	id        string
	name      string
	transport Transport
	log       logger.Logger

	mu     sync.Mutex
	subs   []subscription
	seq    uint64
	cancel func()
	closed bool
}

// Open opens a handle. A nil transport or a failing subscription yields a
// degraded handle; the failure is logged, never returned.
func Open(ctx context.Context, name string, transport Transport, log logger.Logger) *Channel {
	if name == "" {
		name = DefaultChannelName
	}

	c := &Channel{
		id:   uuid.NewString(),
		name: name,
		log:  log,
	}
	if transport == nil {
		log.Warn(ctx, "fare channel has no transport, events are dropped", "channel", name)
		return c
	}

	cancel, err := transport.Subscribe(ctx, name, c.receive)
	if err != nil {
		log.Error(ctx, "fare channel transport unavailable, events are dropped", err,
			"channel", name, "transport", transport.Name())
		return c
	}

	c.transport = transport
	c.cancel = cancel
	log.Info(ctx, "fare channel opened", "channel", name, "transport", transport.Name(), "handle", c.id)
	return c
}

// Degraded reports whether the handle lacks a working transport.
func (c *Channel) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport == nil
}

func (c *Channel) transportName() string {
	if c.transport == nil {
		return "none"
	}
	return c.transport.Name()
}

// Publish sends the event to the other handles. It never returns an error.
func (c *Channel) Publish(ctx context.Context, event models.FareEvent) {
	ctx = wrap.WithAction(ctx, types.ActionPublishFareEvent)
	ctx = wrap.WithBusID(ctx, event.BusID)

	c.mu.Lock()
	transport, closed := c.transport, c.closed
	c.mu.Unlock()
	if transport == nil || closed {
		return
	}

	var err error
	defer func() { metrics.RecordFareEventPublish(transport.Name(), string(event.Type), err) }()

	if err = event.Validate(); err != nil {
		c.log.Error(ctx, "refusing to publish invalid fare event", err)
		return
	}

	payload, err := json.Marshal(envelope{Origin: c.id, Event: event})
	if err != nil {
		c.log.Error(ctx, "encode fare event", err)
		return
	}

	// detach from the caller's cancellation, publishing is fire-and-forget
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err = transport.Publish(pubCtx, c.name, payload); err != nil {
		c.log.Error(ctx, "publish fare event", err, "type", event.Type)
		return
	}
	c.log.Debug(ctx, "fare event published", "type", event.Type)
}

// Subscribe registers fn for every event received from other handles and
// returns a function that removes it.
func (c *Channel) Subscribe(fn Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.transport == nil {
		return func() {}
	}

	c.seq++
	id := c.seq
	c.subs = append(c.subs, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subs = slices.DeleteFunc(c.subs, func(s subscription) bool { return s.id == id })
	}
}

// Close releases the transport subscription and every handler.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.subs = nil
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (c *Channel) receive(payload []byte) {
	ctx := wrap.WithAction(context.Background(), types.ActionReceiveFareEvent)

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.log.Warn(ctx, "dropping undecodable fare event", "error", err.Error())
		return
	}
	if env.Origin == c.id {
		return
	}
	if err := env.Event.Validate(); err != nil {
		c.log.Warn(ctx, "dropping invalid fare event", "error", err.Error())
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	handlers := make([]Handler, len(c.subs))
	for i, s := range c.subs {
		handlers[i] = s.fn
	}
	transport := c.transportName()
	c.mu.Unlock()

	metrics.RecordFareEventReceived(transport, string(env.Event.Type))
	for _, fn := range handlers {
		c.safeCall(ctx, fn, env.Event)
	}
}

func (c *Channel) safeCall(ctx context.Context, fn Handler, event models.FareEvent) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error(ctx, "fare event handler panicked", errors.New(fmt.Sprint(r)), "type", event.Type)
		}
	}()
	fn(event)
}
