// Package enrich is the enrichment orchestrator. It normalizes a lookup,
// serves fresh cache hits, otherwise consults the provider chain in priority
// order, merges results first-writer-wins, and caches any non-empty result.
//
// Lookups never fail because of providers or the cache: every such failure
// degrades to a not-found or partial profile. The only error returned is the
// caller's context error, and a cancelled lookup writes nothing.
package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/home-data-enrichment/internal/cache"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
	"github.com/couchcryptid/home-data-enrichment/internal/observability"
)

// DefaultProviderTimeout bounds a single provider call when Options leaves it unset.
const DefaultProviderTimeout = 8 * time.Second

// Cache and pipeline label values.
const (
	pipelineProperty = "property"
	pipelineClimate  = "climate"
)

// Options wires an Enricher. Chains are in priority order: earlier providers
// win field conflicts.
type Options struct {
	PropertyChain   []domain.PropertyProvider
	ClimateChain    []domain.ClimateProvider
	PropertyCache   cache.Store
	ClimateCache    cache.Store
	Policy          Policy
	ProviderTimeout time.Duration
	Clock           clockwork.Clock
	Logger          *slog.Logger
	Metrics         *observability.Metrics
}

// Enricher orchestrates property and climate lookups. It is safe for
// concurrent use; concurrent lookups of the same key may both recompute.
type Enricher struct {
	propertyChain   []domain.PropertyProvider
	climateChain    []domain.ClimateProvider
	propertyCache   cache.Store
	climateCache    cache.Store
	policy          Policy
	providerTimeout time.Duration
	clock           clockwork.Clock
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// New builds an Enricher from opts.
func New(opts Options) *Enricher {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultProviderTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	return &Enricher{
		propertyChain:   opts.PropertyChain,
		climateChain:    opts.ClimateChain,
		propertyCache:   opts.PropertyCache,
		climateCache:    opts.ClimateCache,
		policy:          opts.Policy,
		providerTimeout: opts.ProviderTimeout,
		clock:           opts.Clock,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
	}
}

// EnrichPropertyData returns the best available profile for an address.
func (e *Enricher) EnrichPropertyData(ctx context.Context, address, city, state, zip string) (domain.EnrichedProfile, error) {
	addr := domain.NormalizeAddress(address, city, state, zip)
	if addr.Empty() {
		return domain.NotFoundProfile(), nil
	}
	key := addr.PropertyKey()

	if p, ok := readCache[domain.EnrichedProfile](ctx, e, e.propertyCache, pipelineProperty, key); ok {
		return p, nil
	}

	acc := domain.NotFoundProfile()
	for _, p := range e.propertyChain {
		if err := ctx.Err(); err != nil {
			return domain.NotFoundProfile(), err
		}
		res := callProvider(ctx, e, p.Name(), func(ctx context.Context) domain.PropertyResult {
			return p.LookupByAddress(ctx, addr)
		})
		if !res.Found() {
			continue
		}
		acc = domain.MergeProperty(acc, res.Data, res.Source)
		if e.policy.Sufficient(res.Source, res.Data) {
			e.logger.Debug("property chain satisfied", "provider", res.Source, "key", key)
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.NotFoundProfile(), err
	}

	if !acc.Found {
		e.metrics.Enrichments.WithLabelValues(pipelineProperty, "not_found").Inc()
		return domain.NotFoundProfile(), nil
	}
	e.metrics.Enrichments.WithLabelValues(pipelineProperty, "found").Inc()
	writeCache(ctx, e, e.propertyCache, pipelineProperty, key, acc, acc.Sources)
	return acc, nil
}

// EnrichClimate returns the merged weather and climate profile for a ZIP
// code. Every climate tier is consulted, concurrently; results are merged in
// chain order.
func (e *Enricher) EnrichClimate(ctx context.Context, zip string) (domain.ClimateProfile, error) {
	key := domain.ZipKey(zip)
	if key == "" {
		return domain.NotFoundClimate(""), nil
	}

	if c, ok := readCache[domain.ClimateProfile](ctx, e, e.climateCache, pipelineClimate, key); ok {
		return c, nil
	}

	results := make([]domain.ClimateResult, len(e.climateChain))
	var wg sync.WaitGroup
	for i, p := range e.climateChain {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = callProvider(ctx, e, p.Name(), func(ctx context.Context) domain.ClimateResult {
				return p.LookupByZip(ctx, key)
			})
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.NotFoundClimate(key), err
	}

	acc := domain.NotFoundClimate(key)
	for _, res := range results {
		if res.Found() {
			acc = domain.MergeClimate(acc, res.Data, res.Source)
		}
	}

	if !acc.Found {
		e.metrics.Enrichments.WithLabelValues(pipelineClimate, "not_found").Inc()
		return domain.NotFoundClimate(key), nil
	}
	acc.Zip = key
	e.metrics.Enrichments.WithLabelValues(pipelineClimate, "found").Inc()
	writeCache(ctx, e, e.climateCache, pipelineClimate, key, acc, acc.Sources)
	return acc, nil
}

// callProvider runs one provider call under the per-provider timeout. A
// provider that panics or overruns the timeout counts as OutcomeFailed.
func callProvider[T any](ctx context.Context, e *Enricher, name string, fn func(context.Context) domain.Result[T]) domain.Result[T] {
	ctx, cancel := context.WithTimeout(ctx, e.providerTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan domain.Result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("provider panicked", "provider", name, "panic", r)
				done <- domain.NotFound[T](domain.OutcomeFailed)
			}
		}()
		done <- fn(ctx)
	}()

	var res domain.Result[T]
	select {
	case res = <-done:
	case <-ctx.Done():
		e.logger.Warn("provider timed out", "provider", name, "timeout", e.providerTimeout)
		res = domain.NotFound[T](domain.OutcomeFailed)
	}
	if res.Found() && res.Source == "" {
		res.Source = name
	}

	e.metrics.ProviderRequests.WithLabelValues(name, string(res.Outcome)).Inc()
	e.metrics.ProviderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return res
}

// readCache returns a fresh cached value for key. Read and decode errors are
// logged and treated as a miss.
func readCache[T any](ctx context.Context, e *Enricher, store cache.Store, name, key string) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}

	entry, ok, err := store.Get(ctx, key)
	switch {
	case err != nil:
		e.logger.Warn("cache read failed", "cache", name, "key", key, "error", err)
		e.metrics.CacheLookups.WithLabelValues(name, "error").Inc()
		return zero, false
	case !ok:
		e.metrics.CacheLookups.WithLabelValues(name, "miss").Inc()
		return zero, false
	case !entry.Fresh(e.clock.Now()):
		e.metrics.CacheLookups.WithLabelValues(name, "stale").Inc()
		return zero, false
	}

	var v T
	if err := json.Unmarshal(entry.Payload, &v); err != nil {
		e.logger.Warn("cache entry undecodable", "cache", name, "key", key, "error", err)
		e.metrics.CacheLookups.WithLabelValues(name, "error").Inc()
		return zero, false
	}
	e.metrics.CacheLookups.WithLabelValues(name, "hit").Inc()
	return v, true
}

// writeCache stores v under key. Failures are logged and counted, never returned.
func writeCache(ctx context.Context, e *Enricher, store cache.Store, name, key string, v any, sources []string) {
	if store == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err == nil {
		err = store.Put(ctx, key, payload, sources)
	}
	if err != nil {
		e.logger.Warn("cache write failed", "cache", name, "key", key, "error", err)
		e.metrics.CacheWriteErrors.WithLabelValues(name).Inc()
		return
	}
	e.logger.Debug("cached enrichment", "cache", name, "key", key, "sources", sources)
}
