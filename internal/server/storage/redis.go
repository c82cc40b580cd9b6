package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

const listingKeyPrefix = "gopraise:listing:"

// RedisListingCache keeps directory listings in Redis as JSON values.
type RedisListingCache struct {
	client *redis.Client
}

// NewRedisListingCache connects to addr and pings it.
func NewRedisListingCache(ctx context.Context, addr, password string, db int) (*RedisListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisListingCache{client: client}, nil
}

// ListingKey returns the Redis key holding the listing of prefix.
func ListingKey(prefix string) string {
	return listingKeyPrefix + prefix
}

// GetListing returns the cached listing of prefix.
func (c *RedisListingCache) GetListing(ctx context.Context, prefix string) ([]domain.ObjectInfo, bool, error) {
	data, err := c.client.Get(ctx, ListingKey(prefix)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get listing: %w", err)
	}

	var objects []domain.ObjectInfo
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return objects, true, nil
}

// SetListing stores the listing of prefix for ttl.
func (c *RedisListingCache) SetListing(ctx context.Context, prefix string, objects []domain.ObjectInfo, ttl time.Duration) error {
	data, err := json.Marshal(objects)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	if err := c.client.Set(ctx, ListingKey(prefix), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}

var _ ports.ListingCache = (*RedisListingCache)(nil)
