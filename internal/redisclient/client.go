package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// submissionTTL bounds how long a submission key is remembered. The order
// row keeps the key indefinitely; Redis is only the fast path.
const submissionTTL = 24 * time.Hour

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SeenSubmission reports whether an idempotency key has been recorded
func (c *Client) SeenSubmission(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, submissionKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSubmission records an idempotency key with the invoice number it
// produced
func (c *Client) MarkSubmission(ctx context.Context, key, invoiceNumber string) error {
	return c.rdb.Set(ctx, submissionKey(key), invoiceNumber, submissionTTL).Err()
}

func submissionKey(key string) string {
	return fmt.Sprintf("submission:%s", key)
}
