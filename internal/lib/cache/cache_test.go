package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadWithoutRedis(t *testing.T) {
	logger := zerolog.Nop()
	c := New(nil, time.Minute, &logger)

	calls := 0
	load := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"monday"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrLoad(context.Background(), c, "days", load)
		require.NoError(t, err)
		assert.Equal(t, []string{"monday"}, got)
	}
	assert.Equal(t, 2, calls)
}

func TestGetOrLoadFallsBackWhenRedisIsDown(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	c := New(client, time.Minute, &logger)

	got, err := GetOrLoad(context.Background(), c, "moments", func(ctx context.Context) (int, error) {
		return 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestGetOrLoadPropagatesLoadError(t *testing.T) {
	boom := errors.New("db down")

	_, err := GetOrLoad(context.Background(), (*Cache)(nil), "days", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}
