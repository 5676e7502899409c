package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Cache backends selectable via CACHE_BACKEND.
const (
	CacheBackendSQL   = "sql"
	CacheBackendRedis = "redis"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Primary database (SQL cache tables).
	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string

	// Cache backend and TTLs.
	CacheBackend     string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheMemorySize  int
	PropertyCacheTTL time.Duration
	ClimateCacheTTL  time.Duration

	ProviderTimeout time.Duration

	// Provider credentials. An empty credential disables the provider.
	AttomAPIKey        string
	AttomBaseURL       string
	CensusEnabled      bool
	CensusBaseURL      string
	MapboxToken        string
	MapboxEnabled      bool
	MapboxBaseURL      string
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Property chain short-circuit policy.
	PropertyAuthoritative []string
	PropertyCoreFields    []string
	PropertyMinCoreFields int

	// Bulk pipeline.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	propertyTTL, err := parsePositiveDuration("PROPERTY_CACHE_TTL", "720h")
	if err != nil {
		return nil, err
	}
	climateTTL, err := parsePositiveDuration("CLIMATE_CACHE_TTL", "2160h")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parsePositiveDuration("PROVIDER_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}

	redisDB, err := parseNonNegativeInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	memorySize, err := parseNonNegativeInt("CACHE_MEMORY_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	coreFields := parseList(sharedcfg.EnvOrDefault("PROPERTY_CORE_FIELDS", "year_built,square_footage"))
	minCore, err := parseNonNegativeInt("PROPERTY_MIN_CORE_FIELDS", len(coreFields))
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseDriver: strings.ToLower(sharedcfg.EnvOrDefault("DATABASE_DRIVER", "sqlite")),
		DatabasePath:   sharedcfg.EnvOrDefault("DATABASE_PATH", "data/enrichment.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		CacheBackend:     strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheBackendSQL)),
		RedisAddr:        sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		CacheMemorySize:  memorySize,
		PropertyCacheTTL: propertyTTL,
		ClimateCacheTTL:  climateTTL,

		ProviderTimeout: providerTimeout,

		AttomAPIKey:        os.Getenv("ATTOM_API_KEY"),
		AttomBaseURL:       sharedcfg.EnvOrDefault("ATTOM_BASE_URL", "https://api.gateway.attomdata.com"),
		CensusEnabled:      sharedcfg.EnvOrDefault("CENSUS_ENABLED", "true") == "true",
		CensusBaseURL:      sharedcfg.EnvOrDefault("CENSUS_BASE_URL", "https://geocoding.geo.census.gov"),
		MapboxToken:        mapboxToken,
		MapboxEnabled:      mapboxEnabled,
		MapboxBaseURL:      sharedcfg.EnvOrDefault("MAPBOX_BASE_URL", "https://api.mapbox.com/geocoding/v5/mapbox.places"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),

		PropertyAuthoritative: parseList(sharedcfg.EnvOrDefault("PROPERTY_AUTHORITATIVE_SOURCES", "attom")),
		PropertyCoreFields:    coreFields,
		PropertyMinCoreFields: minCore,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "property-lookup-requests")),
		KafkaSinkTopic:     strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "enriched-properties")),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "home-data-enrichment"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres driver")
	}

	switch c.CacheBackend {
	case CacheBackendSQL:
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when CACHE_BACKEND is redis")
		}
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.PropertyMinCoreFields > len(c.PropertyCoreFields) {
		return fmt.Errorf("PROPERTY_MIN_CORE_FIELDS (%d) exceeds the number of PROPERTY_CORE_FIELDS (%d)",
			c.PropertyMinCoreFields, len(c.PropertyCoreFields))
	}

	if !c.KafkaEnabled {
		return nil
	}
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	return nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
