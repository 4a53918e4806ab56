package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"keyword-scout/pkg/logger"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// New builds the cache selected by cfg.Backend. The Redis backend is pinged
// once so a bad address fails at startup. Backend "none" returns nil.
func New(ctx context.Context, cfg Config) (Cache, error) {
	log := logger.GetLogger().WithField("component", "cache")

	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		log.WithField("max_entries", cfg.MaxEntries).Info("Using in-memory cache")
		return NewMemoryCache(cfg.MaxEntries, time.Minute), nil
	case BackendRedis:
		opts, err := redisOptions(cfg)
		if err != nil {
			return nil, err
		}
		rc := NewRedisCache(redis.NewClient(opts), cfg.Prefix)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
		}
		log.WithField("addr", opts.Addr).Info("Using redis cache")
		return rc, nil
	case BackendNone:
		log.Info("Result cache disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func redisOptions(cfg Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	return &redis.Options{Addr: addr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, nil
}

// LoadJSON decodes the cached value for key into dest. A missing key or an
// undecodable value reports false.
func LoadJSON(ctx context.Context, c Cache, key string, dest interface{}) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
