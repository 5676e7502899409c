package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/home-data-enrichment/internal/app"
	"github.com/couchcryptid/home-data-enrichment/internal/config"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
	"github.com/couchcryptid/home-data-enrichment/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig(t *testing.T) *config.Config {
	return &config.Config{
		DatabaseDriver:        "sqlite",
		DatabasePath:          filepath.Join(t.TempDir(), "cache.db"),
		CacheBackend:          config.CacheBackendSQL,
		PropertyCacheTTL:      720 * time.Hour,
		ClimateCacheTTL:       2160 * time.Hour,
		ProviderTimeout:       2 * time.Second,
		PropertyAuthoritative: []string{"attom"},
		PropertyCoreFields:    []string{"year_built", "square_footage"},
		PropertyMinCoreFields: 2,
	}
}

func TestNew_SQLBackend(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	a, err := app.New(context.Background(), baseConfig(t), discardLogger(), metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.CheckReadiness(context.Background()))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ProvidersEnabled.WithLabelValues("attom")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProvidersEnabled.WithLabelValues("climate_zone_estimate")))
}

func TestNew_RejectsInvalidPolicy(t *testing.T) {
	cfg := baseConfig(t)
	cfg.PropertyCoreFields = []string{"pool_count"}
	cfg.PropertyMinCoreFields = 1

	_, err := app.New(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_count")
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CacheBackend = config.CacheBackendRedis
	cfg.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := app.New(ctx, cfg, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
}

func TestChains_PriorityOrder(t *testing.T) {
	property, climate := app.Chains(baseConfig(t), discardLogger())

	names := func(ps []domain.PropertyProvider) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name()
		}
		return out
	}
	assert.Equal(t, []string{"attom", "census_geocoder", "mapbox"}, names(property))
	require.Len(t, climate, 2)
	assert.Equal(t, "openweather", climate[0].Name())
	assert.Equal(t, "climate_zone_estimate", climate[1].Name())
}

// Without credentials only the static estimator answers, and the second
// lookup is a cache hit.
func TestApp_ClimateFromEstimatorIsCached(t *testing.T) {
	var owmCalls atomic.Int32
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		owmCalls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(owm.Close)

	cfg := baseConfig(t)
	cfg.OpenWeatherBaseURL = owm.URL
	cfg.CacheMemorySize = 16

	metrics := observability.NewMetricsForTesting()
	a, err := app.New(context.Background(), cfg, discardLogger(), metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	first, err := a.Enricher.EnrichClimate(context.Background(), "94102")
	require.NoError(t, err)
	assert.True(t, first.Found)
	assert.Equal(t, []string{"climate_zone_estimate"}, first.Sources)

	second, err := a.Enricher.EnrichClimate(context.Background(), "94102-1234")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(0), owmCalls.Load(), "unconfigured provider makes no network call")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("climate", "hit")))
}
