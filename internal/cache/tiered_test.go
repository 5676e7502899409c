package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records calls and delegates to an LRU.
type countingStore struct {
	inner   *LRU
	gets    int
	puts    int
	failGet error
	failPut error
}

func (s *countingStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.gets++
	if s.failGet != nil {
		return Entry{}, false, s.failGet
	}
	return s.inner.Get(ctx, key)
}

func (s *countingStore) Put(ctx context.Context, key string, payload []byte, sources []string) error {
	s.puts++
	if s.failPut != nil {
		return s.failPut
	}
	return s.inner.Put(ctx, key, payload, sources)
}

func newTieredForTest(clock clockwork.Clock) (*Tiered, *countingStore) {
	back := &countingStore{inner: NewLRU(100, 30*24*time.Hour, clock)}
	return NewTiered(NewLRU(10, 30*24*time.Hour, clock), back), back
}

func TestTiered_PutWritesBothTiers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tiered, back := newTieredForTest(clock)
	ctx := context.Background()

	require.NoError(t, tiered.Put(ctx, "k", []byte("v"), []string{"attom"}))
	assert.Equal(t, 1, back.puts)

	e, ok, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(e.Payload))
	assert.Equal(t, 0, back.gets, "fresh front entry should be served from memory")
}

func TestTiered_BackHitPromotesWithOriginalExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tiered, back := newTieredForTest(clock)
	ctx := context.Background()

	require.NoError(t, back.inner.Put(ctx, "k", []byte("v"), nil))
	want, _, _ := back.inner.Get(ctx, "k")

	clock.Advance(time.Hour)
	e, ok, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.ExpiresAt.Equal(want.ExpiresAt))
	assert.Equal(t, 1, back.gets)

	_, _, _ = tiered.Get(ctx, "k")
	assert.Equal(t, 1, back.gets, "second read should come from memory")

	front, ok, _ := tiered.front.Get(ctx, "k")
	require.True(t, ok)
	assert.True(t, front.ExpiresAt.Equal(want.ExpiresAt))
}

func TestTiered_StaleFrontFallsThrough(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tiered, back := newTieredForTest(clock)
	ctx := context.Background()

	require.NoError(t, tiered.Put(ctx, "k", []byte("v"), nil))
	clock.Advance(31 * 24 * time.Hour)

	e, ok, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.Fresh(clock.Now()))
	assert.Equal(t, 1, back.gets)
}

func TestTiered_BackPutFailureSkipsFront(t *testing.T) {
	tiered, back := newTieredForTest(clockwork.NewFakeClock())
	back.failPut = errors.New("disk full")
	ctx := context.Background()

	err := tiered.Put(ctx, "k", []byte("v"), nil)
	require.Error(t, err)

	_, ok, _ := tiered.front.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTiered_BackGetError(t *testing.T) {
	tiered, back := newTieredForTest(clockwork.NewFakeClock())
	back.failGet = errors.New("connection refused")

	_, ok, err := tiered.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
}
