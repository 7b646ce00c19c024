package gateway

import (
	"context"
	"encoding/json"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache is a read-through manifest cache in front of a ManifestSource. It
// always keeps a short-lived in-process copy; when a Redis client is
// provided the manifest is additionally shared across console instances.
// Cache failures degrade to fetching from the source, never to an error of
// their own.
type Cache struct {
	source ManifestSource
	local  *gocache.Cache
	redis  *redis.Client
	ttl    time.Duration
}

// NewCache wraps source with caching. redisClient may be nil.
func NewCache(source ManifestSource, redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		source: source,
		local:  gocache.New(ttl, 2*ttl),
		redis:  redisClient,
		ttl:    ttl,
	}
}

func manifestKey(organizationID, stackID string) string {
	return "versions:" + organizationID + "/" + stackID
}

// Versions returns the manifest for one stack, from the in-process cache,
// then Redis, then the source.
func (c *Cache) Versions(ctx context.Context, organizationID, stackID string) (Manifest, error) {
	key := manifestKey(organizationID, stackID)

	if cached, ok := c.local.Get(key); ok {
		return cached.(Manifest), nil
	}

	if c.redis != nil {
		raw, err := c.redis.Get(ctx, key).Result()
		if err == nil {
			var manifest Manifest
			if err := json.Unmarshal([]byte(raw), &manifest); err == nil {
				c.local.SetDefault(key, manifest)
				return manifest, nil
			}
			log.Printf("gateway: discarding corrupt cached manifest for %s/%s", organizationID, stackID)
		} else if err != redis.Nil {
			log.Printf("gateway: manifest cache read failed: %v", err)
		}
	}

	manifest, err := c.source.Versions(ctx, organizationID, stackID)
	if err != nil {
		return Manifest{}, err
	}

	c.local.SetDefault(key, manifest)
	if c.redis != nil {
		if raw, err := json.Marshal(manifest); err == nil {
			if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("gateway: manifest cache write failed: %v", err)
			}
		}
	}
	return manifest, nil
}

// Invalidate drops the cached manifest for one stack, forcing the next
// Versions call to hit the gateway.
func (c *Cache) Invalidate(ctx context.Context, organizationID, stackID string) {
	key := manifestKey(organizationID, stackID)
	c.local.Delete(key)
	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			log.Printf("gateway: manifest cache invalidate failed: %v", err)
		}
	}
}
