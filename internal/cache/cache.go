// Package cache implements the time-boxed fetch cache that sits in front of
// every upstream read.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// SharedFetchTimeout bounds a coalesced fetch, which no longer follows the
// context of the caller that started it.
const SharedFetchTimeout = 30 * time.Second

type entry[T any] struct {
	Data      T         `json:"data"`
	Variant   string    `json:"variant,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Keyed caches values of one resource type per key. A value younger than the
// TTL is served without calling fetch. Concurrent misses for the same key and
// variant share one fetch; forced refreshes always call fetch themselves.
type Keyed[T any] struct {
	namespace string
	store     Store
	ttl       time.Duration
	now       func() time.Time
	group     singleflight.Group
}

// New creates a cache for one resource. Keys are stored as namespace:key.
func New[T any](namespace string, store Store, ttl time.Duration) *Keyed[T] {
	return &Keyed[T]{
		namespace: namespace,
		store:     store,
		ttl:       ttl,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (k *Keyed[T]) WithClock(now func() time.Time) *Keyed[T] {
	k.now = now
	return k
}

// TTL returns the freshness window.
func (k *Keyed[T]) TTL() time.Duration {
	return k.ttl
}

// Fetch returns the cached value for key when it is fresh and force is false,
// otherwise it calls fetch and stores the result. A failed fetch leaves the
// previous entry in place.
func (k *Keyed[T]) Fetch(ctx context.Context, key string, force bool, fetch func(context.Context) (T, error)) (T, error) {
	return k.FetchVariant(ctx, key, "", force, fetch)
}

// FetchVariant is Fetch for resources whose cached value is only valid for a
// particular request shape, such as one page of a listing. An entry fetched
// with another variant counts as a miss and is replaced on success.
func (k *Keyed[T]) FetchVariant(ctx context.Context, key, variant string, force bool, fetch func(context.Context) (T, error)) (T, error) {
	if !force {
		if e, ok := k.load(ctx, key); ok && e.Variant == variant && k.fresh(e) {
			return e.Data, nil
		}
	}

	if force {
		return k.refresh(ctx, key, variant, fetch)
	}

	// The shared fetch outlives any one caller; each caller stops waiting
	// when its own context ends.
	ch := k.group.DoChan(key+"\x00"+variant, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()
		return k.refresh(shared, key, variant, fetch)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the last stored value regardless of age.
func (k *Keyed[T]) Peek(ctx context.Context, key string) (T, time.Time, bool) {
	e, ok := k.load(ctx, key)
	if !ok {
		var zero T
		return zero, time.Time{}, false
	}
	return e.Data, e.FetchedAt, true
}

// Invalidate drops the entry for key.
func (k *Keyed[T]) Invalidate(ctx context.Context, key string) error {
	return k.store.Delete(ctx, k.storeKey(key))
}

func (k *Keyed[T]) refresh(ctx context.Context, key, variant string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	e := entry[T]{Data: v, Variant: variant, FetchedAt: k.now()}
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("Failed to encode cache entry %s: %v", k.storeKey(key), err)
		return v, nil
	}
	if err := k.store.Set(ctx, k.storeKey(key), payload); err != nil {
		log.Printf("Failed to store cache entry %s: %v", k.storeKey(key), err)
	}
	return v, nil
}

func (k *Keyed[T]) load(ctx context.Context, key string) (entry[T], bool) {
	var e entry[T]
	raw, ok, err := k.store.Get(ctx, k.storeKey(key))
	if err != nil {
		log.Printf("Failed to load cache entry %s: %v", k.storeKey(key), err)
		return e, false
	}
	if !ok {
		return e, false
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Printf("Discarding unreadable cache entry %s: %v", k.storeKey(key), err)
		return e, false
	}
	return e, true
}

func (k *Keyed[T]) fresh(e entry[T]) bool {
	return k.now().Sub(e.FetchedAt) < k.ttl
}

func (k *Keyed[T]) storeKey(key string) string {
	return k.namespace + ":" + key
}
