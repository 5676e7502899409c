//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/couchcryptid/home-data-enrichment/internal/cache"
)

func startRedis(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return host + ":" + port.Port()
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{Addr: startRedis(ctx, t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	clock := clockwork.NewFakeClockAt(testNow)
	store := cache.NewRedisStore(client, cache.ClimateTable+":", cache.ClimateTTL, clock)
	require.NoError(t, store.CheckReadiness(ctx))

	_, ok, err := store.Get(ctx, "94102")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"found":true,"sources":["openweather"],"zip":"94102"}`)
	require.NoError(t, store.Put(ctx, "94102", payload, []string{"openweather"}))

	entry, ok, err := store.Get(ctx, "94102")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, []string{"openweather"}, entry.Sources)
	assert.True(t, entry.ExpiresAt.Equal(testNow.Add(cache.ClimateTTL)))

	// Expired entries remain readable until superseded.
	clock.Advance(cache.ClimateTTL + time.Hour)
	entry, ok, err = store.Get(ctx, "94102")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, entry.Fresh(clock.Now()))

	ttl, err := client.TTL(ctx, cache.ClimateTable+":94102").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "keys are stored without a redis expiry")
}
