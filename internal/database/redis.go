package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash key holding the visited-link set.
const DefaultRedisKey = "wikicrawl:links"

// redisCommander is the slice of the go-redis client the store needs.
// Narrowing the dependency keeps the store testable with a hand-rolled
// fake; *redis.Client satisfies it.
type redisCommander interface {
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
	HKeys(ctx context.Context, key string) *redis.StringSliceCmd
	HLen(ctx context.Context, key string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore is the Redis-backed link store. The visited set lives in a
// single hash: fields are links, values are opaque per-link identifiers.
// HSETNX gives the same atomic insert-and-check the SQLite backend gets
// from its UNIQUE column, shared across every process talking to the same
// Redis instance.
type RedisStore struct {
	client redisCommander
	key    string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKey overrides the hash key holding the visited set.
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		s.key = key
	}
}

// NewRedisStore creates a RedisStore talking to the given address.
func NewRedisStore(addr string, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    DefaultRedisKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewRedisStoreWithClient creates a RedisStore over an existing client.
// Tests use this to inject a fake commander.
func NewRedisStoreWithClient(client redisCommander, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    DefaultRedisKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ping verifies the connection to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// TryInsert attempts to add a link to the visited set. It returns true iff
// the link was not previously present. The stored field value is a fresh
// UUID serving as the link's opaque identifier.
func (s *RedisStore) TryInsert(ctx context.Context, link string) (bool, error) {
	fresh, err := s.client.HSetNX(ctx, s.key, link, uuid.NewString()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to insert link: %w", err)
	}
	return fresh, nil
}

// ListAll returns every link in the visited set, in server hash order.
func (s *RedisStore) ListAll(ctx context.Context) ([]string, error) {
	links, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// Count returns the size of the visited set.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return int(n), nil
}
