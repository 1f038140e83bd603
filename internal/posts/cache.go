package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const feedVersionKey = "feed:version"

// FeedCache caches anonymous feed pages in Redis. Entries are keyed with a
// version counter; any write to posts bumps the version, which orphans every
// cached page at once. A singleflight group collapses concurrent misses for
// the same page into a single store round trip.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewFeedCache instantiates the cache helper.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, feedVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bust invalidates all cached pages by bumping the version counter.
func (c *FeedCache) Bust(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, feedVersionKey).Err()
}

// Fetch loads a cached value or populates it using the loader. Cache faults
// degrade to calling the loader directly.
func (c *FeedCache) Fetch(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}

	ver, err := c.version(ctx)
	if err != nil {
		value, lerr := loader(ctx)
		if lerr != nil {
			return lerr
		}
		return reencode(value, dest)
	}
	versioned := fmt.Sprintf("%s:%d", key, ver)

	raw, err := c.client.Get(ctx, versioned).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}

	result, err, _ := c.group.Do(versioned, func() (any, error) {
		// The load is shared by every collapsed caller, so it must not die
		// with whichever request happened to start it.
		loadCtx := context.WithoutCancel(ctx)
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(loadCtx, versioned, data, c.ttl).Err()
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), dest)
}

func reencode(value, dest any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
