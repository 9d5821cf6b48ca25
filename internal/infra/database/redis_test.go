package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, rdb.Set(context.Background(), "fl:ping", "1", 0).Err())
	got, err := mr.Get("fl:ping")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestNewRedisRequiresPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("hunter2")

	_, err := NewRedis(context.Background(), mr.Addr(), "wrong", 0)
	assert.Error(t, err)

	rdb, err := NewRedis(context.Background(), mr.Addr(), "hunter2", 0)
	require.NoError(t, err)
	rdb.Close()
}

func TestNewRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = NewRedis(ctx, addr, "", 0)
	assert.Error(t, err)
}
