// Package app assembles the enrichment service from configuration: cache
// backend, provider chains, short-circuit policy and orchestrator. Both the
// daemon and the one-shot CLI build through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/attom"
	"github.com/couchcryptid/home-data-enrichment/internal/adapter/census"
	"github.com/couchcryptid/home-data-enrichment/internal/adapter/climatezone"
	"github.com/couchcryptid/home-data-enrichment/internal/adapter/mapbox"
	"github.com/couchcryptid/home-data-enrichment/internal/adapter/openweather"
	"github.com/couchcryptid/home-data-enrichment/internal/cache"
	"github.com/couchcryptid/home-data-enrichment/internal/config"
	"github.com/couchcryptid/home-data-enrichment/internal/database"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
	"github.com/couchcryptid/home-data-enrichment/internal/enrich"
	"github.com/couchcryptid/home-data-enrichment/internal/observability"
)

// App is a wired orchestrator plus the resources backing its caches.
type App struct {
	Enricher *enrich.Enricher

	db     *gorm.DB
	redis  *redis.Client
	ready  sharedobs.ReadinessChecker
	logger *slog.Logger
}

// New builds an App. It fails only on configuration the service cannot run
// with: an unreachable cache backend or an invalid policy. Missing provider
// credentials just leave that provider disabled.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	policy := enrich.Policy{
		Authoritative: cfg.PropertyAuthoritative,
		CoreFields:    cfg.PropertyCoreFields,
		MinCoreFields: cfg.PropertyMinCoreFields,
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("property policy: %w", err)
	}

	a := &App{logger: logger}
	clock := clockwork.NewRealClock()

	propertyCache, climateCache, err := a.openCaches(ctx, cfg, clock)
	if err != nil {
		return nil, err
	}

	propertyChain, climateChain := Chains(cfg, logger)
	recordEnabled(cfg, metrics, logger)

	a.Enricher = enrich.New(enrich.Options{
		PropertyChain:   propertyChain,
		ClimateChain:    climateChain,
		PropertyCache:   propertyCache,
		ClimateCache:    climateCache,
		Policy:          policy,
		ProviderTimeout: cfg.ProviderTimeout,
		Clock:           clock,
		Logger:          logger,
		Metrics:         metrics,
	})
	return a, nil
}

// Chains returns the property and climate provider chains in priority order.
// Unconfigured providers stay in the chain and report OutcomeUnconfigured.
func Chains(cfg *config.Config, logger *slog.Logger) ([]domain.PropertyProvider, []domain.ClimateProvider) {
	mapboxToken := ""
	if cfg.MapboxEnabled {
		mapboxToken = cfg.MapboxToken
	}
	property := []domain.PropertyProvider{
		attom.NewClient(cfg.AttomAPIKey, cfg.AttomBaseURL, cfg.ProviderTimeout, logger),
		census.NewClient(cfg.CensusEnabled, cfg.CensusBaseURL, cfg.ProviderTimeout, logger),
		mapbox.NewClient(mapboxToken, cfg.MapboxBaseURL, cfg.ProviderTimeout, logger),
	}
	climate := []domain.ClimateProvider{
		openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.ProviderTimeout, logger),
		climatezone.NewEstimator(),
	}
	return property, climate
}

func (a *App) openCaches(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (cache.Store, cache.Store, error) {
	var property, climate cache.Store

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		a.redis = client
		store := cache.NewRedisStore(client, cache.PropertyTable+":", cfg.PropertyCacheTTL, clock)
		a.ready = store
		property = store
		climate = cache.NewRedisStore(client, cache.ClimateTable+":", cfg.ClimateCacheTTL, clock)
		a.logger.Info("cache backend ready", "backend", "redis", "addr", cfg.RedisAddr)
	default:
		db, err := database.Open(database.Config{
			Driver: cfg.DatabaseDriver,
			Path:   cfg.DatabasePath,
			DSN:    cfg.DatabaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate cache tables: %w", err)
		}
		a.db = db
		a.ready = database.NewReadiness(db)
		property = cache.NewSQLStore(db, cache.PropertyTable, cfg.PropertyCacheTTL, clock)
		climate = cache.NewSQLStore(db, cache.ClimateTable, cfg.ClimateCacheTTL, clock)
		a.logger.Info("cache backend ready", "backend", "sql", "driver", cfg.DatabaseDriver)
	}

	if cfg.CacheMemorySize > 0 {
		property = cache.NewTiered(cache.NewLRU(cfg.CacheMemorySize, cfg.PropertyCacheTTL, clock), property)
		climate = cache.NewTiered(cache.NewLRU(cfg.CacheMemorySize, cfg.ClimateCacheTTL, clock), climate)
		a.logger.Info("in-memory cache tier enabled", "size", cfg.CacheMemorySize)
	}
	return property, climate, nil
}

func recordEnabled(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	enabled := map[string]bool{
		attom.Source:       cfg.AttomAPIKey != "",
		census.Source:      cfg.CensusEnabled,
		mapbox.Source:      cfg.MapboxEnabled && cfg.MapboxToken != "",
		openweather.Source: cfg.OpenWeatherAPIKey != "",
		climatezone.Source: true,
	}
	for name, on := range enabled {
		v := 0.0
		if on {
			v = 1
		}
		metrics.ProvidersEnabled.WithLabelValues(name).Set(v)
		logger.Info("provider configured", "provider", name, "enabled", on)
	}
}

// CheckReadiness pings the cache backend.
func (a *App) CheckReadiness(ctx context.Context) error {
	if a.ready == nil {
		return errors.New("no cache backend")
	}
	return a.ready.CheckReadiness(ctx)
}

// Close releases the cache backend connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
