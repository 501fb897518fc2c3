package notifier

import (
	"context"
	"sync"
)

// LocalBus connects handles living in the same process.
type LocalBus struct {
	mu     sync.RWMutex
	topics map[string]map[uint64]*mailbox
	seq    uint64
}

func NewLocalBus() *LocalBus {
	return &LocalBus{topics: make(map[string]map[uint64]*mailbox)}
}

func (b *LocalBus) Name() string { return "local" }

func (b *LocalBus) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, m := range b.topics[topic] {
		m.put(payload)
	}
	return nil
}

func (b *LocalBus) Subscribe(_ context.Context, topic string, fn func([]byte)) (func(), error) {
	m := newMailbox(fn)

	b.mu.Lock()
	b.seq++
	id := b.seq
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[uint64]*mailbox)
	}
	b.topics[topic][id] = m
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.topics[topic], id)
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
		b.mu.Unlock()
		m.close()
	}, nil
}

// Subscribers reports how many subscriptions are open on topic.
func (b *LocalBus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}
