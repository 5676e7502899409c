package enrich_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/cache"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// --- provider fakes ---

type fakeProperty struct {
	name   string
	result domain.PropertyResult
	sleep  time.Duration // ignores ctx while sleeping
	panics bool
	calls  atomic.Int32
	seen   atomic.Value // domain.Address
}

func (f *fakeProperty) Name() string { return f.name }

func (f *fakeProperty) LookupByAddress(_ context.Context, addr domain.Address) domain.PropertyResult {
	f.calls.Add(1)
	f.seen.Store(addr)
	if f.panics {
		panic("provider exploded")
	}
	if f.sleep > 0 {
		time.Sleep(f.sleep)
	}
	return f.result
}

func found(name string, p domain.EnrichedProfile) *fakeProperty {
	return &fakeProperty{name: name, result: domain.Found(name, p)}
}

func missing(name string, outcome domain.Outcome) *fakeProperty {
	return &fakeProperty{name: name, result: domain.PropertyMiss(outcome)}
}

type fakeClimate struct {
	name   string
	result domain.ClimateResult
	wait   <-chan struct{}
	calls  atomic.Int32
}

func (f *fakeClimate) Name() string { return f.name }

func (f *fakeClimate) LookupByZip(ctx context.Context, _ string) domain.ClimateResult {
	f.calls.Add(1)
	if f.wait != nil {
		select {
		case <-f.wait:
		case <-ctx.Done():
			return domain.ClimateMiss(domain.OutcomeFailed)
		}
	}
	return f.result
}

// --- cache fakes ---

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps a Store and can fail reads or writes.
type flakyStore struct {
	cache.Store
	failGet bool
	failPut bool
	puts    atomic.Int32
}

func (s *flakyStore) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	if s.failGet {
		return cache.Entry{}, false, errStoreDown
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Put(ctx context.Context, key string, payload []byte, sources []string) error {
	s.puts.Add(1)
	if s.failPut {
		return errStoreDown
	}
	return s.Store.Put(ctx, key, payload, sources)
}
