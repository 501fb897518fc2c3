package redis

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
)

type Config interface {
	GetAddr() string
	GetPassword() string
	GetDB() int
	GetConnectRetries() uint64
}

type Client struct {
	*goredis.Client
}

// New connects to Redis and pings it with exponential backoff.
func New(ctx context.Context, config Config) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     config.GetAddr(),
		Password: config.GetPassword(),
		DB:       config.GetDB(),
	})

	retry := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), config.GetConnectRetries()), ctx)
	if err := backoff.Retry(func() error { return rdb.Ping(ctx).Err() }, retry); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", config.GetAddr(), err)
	}

	return &Client{Client: rdb}, nil
}

func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
