package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixelbay/photoshare/pkg/cryptox"
)

const denylistPrefix = "denylist:"

// RedisConfig carries connection settings for the shared denylist backing.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// RedisDenylist is the production Denylist: a shared redis keyspace with
// native per-key expiry, visible to every service process.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist connects to redis and verifies the connection.
func NewRedisDenylist(ctx context.Context, cfg RedisConfig) (*RedisDenylist, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("cache: redis address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: failed to ping redis: %w", err)
	}

	return &RedisDenylist{client: client}, nil
}

// NewRedisDenylistFromClient wraps an existing client, mainly for tests.
func NewRedisDenylistFromClient(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past its natural expiry; nothing worth storing.
		return nil
	}

	if err := d.client.Set(ctx, denylistKey(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("cache: revoke: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("cache: lookup: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether the backing store is reachable.
func (d *RedisDenylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *RedisDenylist) Close() error {
	return d.client.Close()
}

// denylistKey fingerprints the token so the cache never stores a replayable
// credential.
func denylistKey(token string) string {
	return denylistPrefix + cryptox.FingerprintToken(token)
}
