// Package redis implements ports.NodeCache using Redis. Only fetched
// articles are cached; run state never touches Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Cache stores article nodes keyed by canonical title.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for cached articles.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached articles.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "wikirun:node:",
		ttl:    24 * time.Hour,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *Cache) key(title string) string {
	return c.prefix + domain.CanonicalTitle(title)
}

// Get returns the cached node, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, title string) (*domain.Node, error) {
	val, err := c.client.Get(ctx, c.key(title)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var node domain.Node
	if err := json.Unmarshal([]byte(val), &node); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached node: %w", err)
	}

	return &node, nil
}

// Put stores the node under its canonical title.
func (c *Cache) Put(ctx context.Context, node *domain.Node) error {
	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to marshal node: %w", err)
	}

	if err := c.client.Set(ctx, c.key(node.Title), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
