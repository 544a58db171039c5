// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "stagemix:asset:"

// Options configures the Redis asset cache.
type Options struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds how long an asset stays cached; 0 keeps it forever.
	TTL time.Duration
	// MaxBytes skips caching assets larger than this; 0 means no limit.
	MaxBytes int
	Prefix   string
}

// Redis stores fetched track bytes in Redis, keyed by locator.
type Redis struct {
	client   redis.UniversalClient
	ttl      time.Duration
	maxBytes int
	prefix   string
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an existing client. Connection fields of opts are
// ignored.
func NewWithClient(client redis.UniversalClient, opts Options) *Redis {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &Redis{
		client:   client,
		ttl:      opts.TTL,
		maxBytes: opts.MaxBytes,
		prefix:   prefix,
	}
}

func (r *Redis) key(locator string) string {
	return r.prefix + locator
}

// Get returns the cached bytes for locator; a miss is not an error.
func (r *Redis) Get(ctx context.Context, locator string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(locator)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, locator string, data []byte) error {
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return nil
	}

	if err := r.client.Set(ctx, r.key(locator), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate drops locator from the cache.
func (r *Redis) Invalidate(ctx context.Context, locator string) error {
	if err := r.client.Del(ctx, r.key(locator)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
