package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// RedisStore implements Store on Redis. Entries are written without a Redis
// expiry so that, as with the SQL tables, stale entries are superseded by
// the next Put rather than evicted.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	clock  clockwork.Clock
}

type redisEntry struct {
	Payload   []byte    `json:"payload"`
	Sources   []string  `json:"sources"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRedisStore creates a Store whose keys are namespaced under prefix,
// e.g. "property_cache:".
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, clock clockwork.Clock) *RedisStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, clock: clock}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var re redisEntry
	if err := json.Unmarshal(data, &re); err != nil {
		return Entry{}, false, fmt.Errorf("redis decode entry: %w", err)
	}
	return Entry{
		Key:       key,
		Payload:   re.Payload,
		Sources:   cloneSources(re.Sources),
		ExpiresAt: re.ExpiresAt,
	}, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte, sources []string) error {
	data, err := json.Marshal(redisEntry{
		Payload:   payload,
		Sources:   cloneSources(sources),
		ExpiresAt: s.clock.Now().Add(s.ttl).UTC(),
	})
	if err != nil {
		return fmt.Errorf("redis encode entry: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CheckReadiness pings Redis.
func (s *RedisStore) CheckReadiness(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
