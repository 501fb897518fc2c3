package rabbit

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/rabbit"
)

const (
	exchangeKind  = "fanout"
	reconnectWait = 2 * time.Second
)

// FanoutTransport carries fare events through one fanout exchange per topic.
// Every subscription owns an exclusive auto-delete queue bound to it, so each
// open handle receives its own copy of every message.
type FanoutTransport struct {
	client *rabbit.RabbitMQ
	l      logger.Logger

	mu       sync.Mutex
	declared map[string]bool
}

func NewFanoutTransport(client *rabbit.RabbitMQ, l logger.Logger) *FanoutTransport {
	return &FanoutTransport{
		client:   client,
		l:        l,
		declared: make(map[string]bool),
	}
}

func (t *FanoutTransport) Name() string { return "rabbitmq" }

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, exchangeKind, true, false, false, false, nil)
}

// Publish sends payload to the exchange. Publishes are serialized to keep
// the order of one publisher.
func (t *FanoutTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	const op = "FanoutTransport.Publish"

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client.IsConnectionClosed() {
		if err := t.client.EnsureConnection(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t.declared = make(map[string]bool)
	}

	ch := t.client.Channel()
	if !t.declared[topic] {
		if err := declareExchange(ch, topic); err != nil {
			return fmt.Errorf("%s: declare exchange: %w", op, err)
		}
		t.declared[topic] = true
	}

	if err := ch.PublishWithContext(ctx, topic, "", false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          payload,
		Timestamp:     time.Now(),
		CorrelationId: wrap.GetRequestID(ctx),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Subscribe binds a fresh exclusive queue to the topic exchange. The first
// binding happens before Subscribe returns; after a broker failure the
// subscription is re-established in the background.
func (t *FanoutTransport) Subscribe(ctx context.Context, topic string, fn func([]byte)) (func(), error) {
	const op = "FanoutTransport.Subscribe"

	ch, deliveries, err := t.bind(topic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go t.consume(subCtx, topic, ch, deliveries, fn)

	return cancel, nil
}

func (t *FanoutTransport) bind(topic string) (*amqp.Channel, <-chan amqp.Delivery, error) {
	ch, err := t.client.OpenChannel()
	if err != nil {
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareExchange(ch, topic); err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", topic, false, nil); err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("consume: %w", err)
	}

	return ch, deliveries, nil
}

func (t *FanoutTransport) consume(ctx context.Context, topic string, ch *amqp.Channel, deliveries <-chan amqp.Delivery, fn func([]byte)) {
	const op = "FanoutTransport.consume"

	defer func() {
		if ch != nil {
			_ = ch.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.l.Debug(ctx, "fare event consumer stopped", "exchange", topic)
			return

		case msg, ok := <-deliveries:
			if ok {
				fn(msg.Body)
				continue
			}

			t.l.Warn(ctx, "delivery channel closed, re-subscribing", "op", op, "exchange", topic)
			if ch != nil {
				_ = ch.Close()
				ch = nil
			}

			for ch == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectWait):
				}

				if err := t.client.EnsureConnection(ctx); err != nil {
					t.l.Error(ctx, "ensure connection failed", err, "op", op)
					continue
				}
				newCh, newDeliveries, err := t.bind(topic)
				if err != nil {
					t.l.Error(ctx, "re-subscribe failed", err, "op", op)
					continue
				}
				ch, deliveries = newCh, newDeliveries
			}
			t.l.Info(ctx, "fare event consumer re-subscribed", "exchange", topic)
		}
	}
}
