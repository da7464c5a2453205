// Package cache holds derived values until they are invalidated or expire.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const valueKey = "value"

type entry[T any] struct {
	result     T
	computedAt time.Time
}

// Value caches a single computed result together with the time it was computed.
// It is owned by one instance and is not safe for concurrent invalidation and reads.
type Value[T any] struct {
	ttl   time.Duration
	store *lru.Cache[string, entry[T]]
	now   func() time.Time
}

// NewValue returns an empty cache. A ttl <= 0 keeps the value until Invalidate.
func NewValue[T any](ttl time.Duration) *Value[T] {
	// size is positive, so New cannot fail
	store, _ := lru.New[string, entry[T]](1)
	return &Value[T]{ttl: ttl, store: store, now: time.Now}
}

// current returns the stored entry unless it has outlived the ttl.
func (v *Value[T]) current() (entry[T], bool) {
	e, ok := v.store.Peek(valueKey)
	if !ok {
		return e, false
	}
	if v.ttl > 0 && v.now().Sub(e.computedAt) >= v.ttl {
		v.store.Remove(valueKey)
		return entry[T]{}, false
	}
	return e, true
}

// Get returns the cached result, computing and storing it when absent or expired.
// A failing compute leaves the cache empty.
func (v *Value[T]) Get(compute func() (T, error)) (T, error) {
	if e, ok := v.current(); ok {
		return e.result, nil
	}
	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	v.store.Add(valueKey, entry[T]{result: result, computedAt: v.now()})
	return result, nil
}

// Peek returns the cached result without computing it.
func (v *Value[T]) Peek() (T, bool) {
	e, ok := v.current()
	return e.result, ok
}

// ComputedAt returns when the cached result was computed.
func (v *Value[T]) ComputedAt() (time.Time, bool) {
	e, ok := v.current()
	return e.computedAt, ok
}

// Set stores result as if it had just been computed.
func (v *Value[T]) Set(result T) {
	v.store.Add(valueKey, entry[T]{result: result, computedAt: v.now()})
}

// Invalidate drops the cached result.
func (v *Value[T]) Invalidate() {
	v.store.Purge()
}

// ExpireAfter changes the time to live and drops the cached result.
// The store is reused, so it may be called any number of times.
func (v *Value[T]) ExpireAfter(ttl time.Duration) {
	v.ttl = ttl
	v.store.Purge()
}

// TTL returns the configured time to live.
func (v *Value[T]) TTL() time.Duration {
	return v.ttl
}
