package notifier

import "context"

// Transport moves opaque payloads between handles opened on the same topic.
//
// Implementations must invoke the receive function of one subscription
// sequentially, in the order the payloads were published by any given
// publisher, and must not block Publish on slow receivers.
type Transport interface {
	Name() string
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string, fn func(payload []byte)) (cancel func(), err error)
}
