package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sneakerculture/internal/adapters/config"
)

const claimPrefix = "order:claim:"

// Client wraps Redis client
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// Wrap builds a Client over an existing connection
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health checks Redis connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Claim marks an order as delivered for ttl. It returns false if the order
// was claimed before, which makes it safe across several bot replicas.
func (c *Client) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, claimPrefix+key, time.Now().Unix(), ttl).Result()
}

// Release drops an order claim
func (c *Client) Release(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, claimPrefix+key).Err()
}

// ActiveClaims counts unexpired order claims
func (c *Client) ActiveClaims(ctx context.Context) (int, error) {
	count := 0
	iter := c.rdb.Scan(ctx, 0, claimPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
