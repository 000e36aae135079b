// Package query is a small read-through cache for remote lookups such as
// account balances. Entries expire after a TTL, and concurrent fetches of the
// same key share one call.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSize = 256
	defaultTTL  = 30 * time.Second
)

// Key identifies a query. Parts are joined with ":".
type Key []string

func (k Key) String() string { return strings.Join(k, ":") }

// Fetcher loads the value for a key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Client caches query results.
type Client struct {
	cache *expirable.LRU[string, any]
	group singleflight.Group
}

// Option configures a Client.
type Option func(*options)

type options struct {
	size int
	ttl  time.Duration
}

// WithSize caps the number of cached entries.
func WithSize(n int) Option {
	return func(o *options) { o.size = n }
}

// WithTTL sets how long an entry stays fresh.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// NewClient creates a query client.
func NewClient(opts ...Option) *Client {
	o := options{size: defaultSize, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{cache: expirable.NewLRU[string, any](o.size, nil, o.ttl)}
}

// Fetch returns the cached value for key or loads it with fn. Errors are
// not cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn Fetcher[T]) (T, error) {
	var zero T
	k := key.String()

	if v, ok := c.cache.Get(k); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
		return zero, fmt.Errorf("query %s: cached value has type %T", k, v)
	}

	v, err, _ := c.group.Do(k, func() (any, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(k, res)
		return res, nil
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: fetched value has type %T", k, v)
	}
	return t, nil
}

// Invalidate drops every cached entry whose key starts with prefix.
func (c *Client) Invalidate(prefix Key) {
	p := prefix.String()
	for _, k := range c.cache.Keys() {
		if strings.HasPrefix(k, p) {
			c.cache.Remove(k)
		}
	}
}

// Clear drops all cached entries.
func (c *Client) Clear() {
	c.cache.Purge()
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	return c.cache.Len()
}
