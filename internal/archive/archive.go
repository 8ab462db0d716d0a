// Package archive keeps a bounded list of recent session digests.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

var (
	// ErrDuplicate is returned when a digest for the same session was already saved.
	ErrDuplicate = errors.New("session digest already archived")

	// ErrInvalidConfig is returned when a driver is missing its options.
	ErrInvalidConfig = errors.New("invalid archive configuration")

	// ErrInvalidStoreType is returned for unknown driver names.
	ErrInvalidStoreType = errors.New("invalid archive store type")
)

// Store saves session digests and lists the most recent ones.
type Store interface {
	// Save records d. Digests carrying a SessionID are saved at most once;
	// a repeat returns ErrDuplicate.
	Save(ctx context.Context, d *model.SessionDigest) error

	// Recent returns up to limit digests, newest first.
	Recent(ctx context.Context, limit int) ([]model.SessionDigest, error)

	// Close releases the store's resources.
	Close() error
}

// StoreType names an archive driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

const defaultCapacity = 500

// StoreOption configures a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
	capacity    int
}

// WithRedisClient sets the Redis client for the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL sets how long archived digests are kept.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithCapacity bounds the number of digests kept.
func WithCapacity(n int) StoreOption {
	return func(c *storeConfig) {
		c.capacity = n
	}
}

// NewStore creates a Store of the given type.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.capacity <= 0 {
		cfg.capacity = defaultCapacity
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(cfg.capacity), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := cfg.ttl
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}
		return &redisStore{client: cfg.redisClient, ttl: ttl, capacity: cfg.capacity}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
