// Package cache keeps rendered product responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "product:"
	productListKey   = "products:all"
	generationKey    = "products:generation"
)

// Generation is a snapshot of the invalidation counter. Take it before
// reading the data to be cached and pass it to the matching Set call.
type Generation int64

// staleGeneration never matches, so a write carrying it is dropped.
const staleGeneration Generation = -1

// ProductCache is safe to use when nil or built without a client; every
// lookup then misses.
//
// Invalidate bumps a generation counter, and writes only land while the
// counter still equals the snapshot the writer took. A reader that loaded
// data before an invalidation cannot put it back afterwards.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func (c *ProductCache) Generation(ctx context.Context) Generation {
	if !c.enabled() {
		return staleGeneration
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		return staleGeneration
	}
	return Generation(gen)
}

func (c *ProductCache) GetProduct(ctx context.Context, id string, dst any) bool {
	return c.get(ctx, productKeyPrefix+id, dst)
}

func (c *ProductCache) SetProduct(ctx context.Context, gen Generation, id string, v any) {
	c.set(ctx, gen, productKeyPrefix+id, v)
}

func (c *ProductCache) GetList(ctx context.Context, dst any) bool {
	return c.get(ctx, productListKey, dst)
}

func (c *ProductCache) SetList(ctx context.Context, gen Generation, v any) {
	c.set(ctx, gen, productListKey, v)
}

// Invalidate drops the product entry and the full listing that embeds it.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if !c.enabled() {
		return
	}
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, productKeyPrefix+id, productListKey)
		return nil
	})
}

func (c *ProductCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *ProductCache) get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(cached, dst) == nil
}

func (c *ProductCache) set(ctx context.Context, gen Generation, key string, v any) {
	if !c.enabled() || gen == staleGeneration {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Watch fails the transaction if Invalidate bumps the counter between
	// the check and the write.
	_ = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if Generation(cur) != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, generationKey)
}
