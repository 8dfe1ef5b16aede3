package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const listingTTL = 5 * time.Minute

// ListingCache caches the serialized public directory listings.
// Key format: listing:<kind>
//
// Cache failures are logged and treated as misses so a Redis outage degrades
// to store reads instead of failing requests. Only entity listings are cached
// here; authorization decisions are never cached anywhere.
type ListingCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewListingCache creates a ListingCache wrapping the given Redis client.
func NewListingCache(client *redis.Client, log zerolog.Logger) *ListingCache {
	return &ListingCache{client: client, log: log}
}

// GetList returns the cached listing payload for kind, if present.
func (c *ListingCache) GetList(ctx context.Context, kind string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.key(kind)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("kind", kind).Msg("listing cache read failed")
		}
		return nil, false
	}
	return payload, true
}

// SetList stores the listing payload for kind (expires after listingTTL).
func (c *ListingCache) SetList(ctx context.Context, kind string, payload []byte) {
	if err := c.client.Set(ctx, c.key(kind), payload, listingTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("listing cache write failed")
	}
}

// Invalidate drops the cached listing for kind after a mutation.
func (c *ListingCache) Invalidate(ctx context.Context, kind string) {
	if err := c.client.Del(ctx, c.key(kind)).Err(); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("listing cache invalidation failed")
	}
}

func (c *ListingCache) key(kind string) string {
	return "listing:" + kind
}
