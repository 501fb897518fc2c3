package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

const (
	cacheName          = "destinations"
	activeListKey      = "destinations:active"
	destinationKeyBase = "destination:"
)

type DestinationSource interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
	ListActive(ctx context.Context) ([]models.Destination, error)
}

// DestinationCache is a read-through Redis cache in front of the destination
// catalog. Destinations change rarely and outside this service, so entries
// simply expire. Cache failures fall back to the source.
type DestinationCache struct {
	source DestinationSource
	cache  *cache.Cache[string]
	log    logger.Logger
}

func NewDestinationCache(client *goredis.Client, source DestinationSource, ttl time.Duration, log logger.Logger) *DestinationCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &DestinationCache{
		source: source,
		cache:  cache.New[string](redisStore),
		log:    log,
	}
}

func (c *DestinationCache) Get(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	key := destinationKeyBase + id.String()

	var d models.Destination
	if c.lookup(ctx, key, &d) {
		return &d, nil
	}

	fresh, err := c.source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *DestinationCache) ListActive(ctx context.Context) ([]models.Destination, error) {
	var list []models.Destination
	if c.lookup(ctx, activeListKey, &list) {
		return list, nil
	}

	fresh, err := c.source.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, activeListKey, fresh)
	return fresh, nil
}

func (c *DestinationCache) lookup(ctx context.Context, key string, dst any) bool {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn(ctx, "destination cache read failed", "key", key, "error", err.Error())
			metrics.RecordCache(cacheName, "error")
		} else {
			metrics.RecordCache(cacheName, "miss")
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.log.Warn(ctx, "destination cache entry is corrupt", "key", key, "error", err.Error())
		metrics.RecordCache(cacheName, "error")
		return false
	}

	metrics.RecordCache(cacheName, "hit")
	return true
}

func (c *DestinationCache) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn(ctx, "encode destination cache entry", "key", key, "error", err.Error())
		return
	}
	if err := c.cache.Set(ctx, key, string(raw)); err != nil {
		c.log.Warn(ctx, "destination cache write failed", "key", key, "error", fmt.Sprint(err))
	}
}
