package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	addr    string
	retries uint64
}

func (c testConfig) GetAddr() string           { return c.addr }
func (c testConfig) GetPassword() string       { return "" }
func (c testConfig) GetDB() int                { return 0 }
func (c testConfig) GetConnectRetries() uint64 { return c.retries }

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), testConfig{addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), testConfig{addr: addr, retries: 1})
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
}
