package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/internal/service/notifier"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

var _ notifier.Transport = (*PubSubTransport)(nil)

func TestPubSubTransport_DeliversInOrder(t *testing.T) {
	_, client := newClient(t)
	tr := NewPubSubTransport(client, logger.Nop())
	ctx := context.Background()

	var (
		mu  sync.Mutex
		got []string
	)
	cancel, err := tr.Subscribe(ctx, "fare-updates", func(p []byte) {
		mu.Lock()
		got = append(got, string(p))
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, tr.Publish(ctx, "fare-updates", []byte(p)))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPubSubTransport_NotifierHandles(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	terminal := notifier.Open(ctx, "fare-updates", NewPubSubTransport(client, logger.Nop()), logger.Nop())
	display := notifier.Open(ctx, "fare-updates", NewPubSubTransport(client, logger.Nop()), logger.Nop())
	defer terminal.Close()
	defer display.Close()
	require.False(t, terminal.Degraded())

	var echoes, received atomic.Int32
	var last atomic.Value
	terminal.Subscribe(func(models.FareEvent) { echoes.Add(1) })
	display.Subscribe(func(e models.FareEvent) {
		last.Store(e)
		received.Add(1)
	})

	event := models.NewConfirmed("BUS_001", 20000, "PYG", "Centro", "tkt_1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	terminal.Publish(ctx, event)

	require.Eventually(t, func() bool { return received.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, event, last.Load())
	assert.Zero(t, echoes.Load())
}

func TestPubSubTransport_SubscribeFailsWhenDown(t *testing.T) {
	mr, client := newClient(t)
	mr.Close()

	ch := notifier.Open(context.Background(), "fare-updates", NewPubSubTransport(client, logger.Nop()), logger.Nop())
	defer ch.Close()
	assert.True(t, ch.Degraded())
}

// countingSource is a DestinationSource that counts its calls.
type countingSource struct {
	gets, lists atomic.Int32
	dest        models.Destination
	err         error
}

func (s *countingSource) Get(_ context.Context, id uuid.UUID) (*models.Destination, error) {
	s.gets.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if id != s.dest.ID {
		return nil, types.ErrDestinationNotFound
	}
	d := s.dest
	return &d, nil
}

func (s *countingSource) ListActive(context.Context) ([]models.Destination, error) {
	s.lists.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []models.Destination{s.dest}, nil
}

func centro() models.Destination {
	return models.Destination{
		ID:         uuid.New(),
		Name:       "Centro",
		Coordinate: models.Coordinate{Latitude: -25.282, Longitude: -57.635},
		Zone:       "Centro",
		IsActive:   true,
	}
}

func TestDestinationCache_ReadThrough(t *testing.T) {
	mr, client := newClient(t)
	src := &countingSource{dest: centro()}
	c := NewDestinationCache(client, src, time.Minute, logger.Nop())
	ctx := context.Background()

	for range 3 {
		d, err := c.Get(ctx, src.dest.ID)
		require.NoError(t, err)
		assert.Equal(t, src.dest, *d)

		list, err := c.ListActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Destination{src.dest}, list)
	}

	assert.EqualValues(t, 1, src.gets.Load())
	assert.EqualValues(t, 1, src.lists.Load())
	assert.True(t, mr.Exists(activeListKey))

	mr.FastForward(2 * time.Minute)
	_, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.lists.Load(), "expired entry is reloaded")
}

func TestDestinationCache_DoesNotCacheErrors(t *testing.T) {
	_, client := newClient(t)
	src := &countingSource{dest: centro()}
	c := NewDestinationCache(client, src, time.Minute, logger.Nop())
	ctx := context.Background()

	for range 2 {
		_, err := c.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, types.ErrNotFound)
	}
	assert.EqualValues(t, 2, src.gets.Load())
}

func TestDestinationCache_RedisDownFallsBack(t *testing.T) {
	mr, client := newClient(t)
	src := &countingSource{dest: centro()}
	c := NewDestinationCache(client, src, time.Minute, logger.Nop())
	mr.Close()

	list, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	src.err = types.ErrStoreUnavailable
	_, err = c.ListActive(context.Background())
	assert.True(t, errors.Is(err, types.ErrStoreUnavailable))
}
