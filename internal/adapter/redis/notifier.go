package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

// PubSubTransport carries fare events over Redis Pub/Sub channels.
// Redis delivers the messages of one connection in publish order, and each
// subscription owns its connection.
type PubSubTransport struct {
	client *goredis.Client
	log    logger.Logger
}

func NewPubSubTransport(client *goredis.Client, log logger.Logger) *PubSubTransport {
	return &PubSubTransport{client: client, log: log}
}

func (t *PubSubTransport) Name() string { return "redis" }

func (t *PubSubTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	const op = "PubSubTransport.Publish"

	if err := t.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (t *PubSubTransport) Subscribe(ctx context.Context, topic string, fn func([]byte)) (func(), error) {
	const op = "PubSubTransport.Subscribe"

	ps := t.client.Subscribe(ctx, topic)
	// wait for the subscription confirmation so nothing published after
	// Subscribe returns is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	messages := ps.Channel()
	go func() {
		for msg := range messages {
			fn([]byte(msg.Payload))
		}
	}()

	return func() {
		if err := ps.Close(); err != nil {
			t.log.Warn(context.Background(), "close redis subscription", "topic", topic, "error", err.Error())
		}
	}, nil
}
