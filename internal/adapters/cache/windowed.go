package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// WindowedCache holds a single value that is considered fresh for a
// configurable interval after it was fetched.
//
// Concurrent misses share one fetch. Invalidating the cache bumps its
// generation, and a fetch started in an older generation never overwrites
// the slot.
type WindowedCache[T any] struct {
	nowFunc func() time.Time
	group   singleflight.Group

	mu         sync.Mutex
	value      T
	hasValue   bool
	fetchedAt  time.Time
	interval   time.Duration
	generation uint64
}

func NewWindowedCache[T any](interval time.Duration, nowFunc func() time.Time) *WindowedCache[T] {
	return &WindowedCache[T]{
		nowFunc:  nowFunc,
		interval: interval,
	}
}

// Get returns the cached value if it is fresh and force is false. Otherwise
// it calls fetch and stores the result. Errors from fetch are returned as is
// and leave the cached value untouched.
//
// The bool reports whether the value was served from the cache.
//
// fetch runs detached from the cancellation of ctx, since other callers may
// be waiting for it. Callers that give up waiting get ctx.Err().
func (c *WindowedCache[T]) Get(ctx context.Context, force bool, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	return c.GetForGeneration(ctx, c.Generation(), force, fetch)
}

// Generation changes on every Invalidate and Reset.
//
// Callers that compute the inputs of fetch before calling into the cache
// should read the generation first and pass it to GetForGeneration.
func (c *WindowedCache[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation
}

// GetForGeneration behaves like Get for a caller whose fetch inputs were read
// at generation. If the cache has been invalidated since, the fetch result is
// returned to the caller but never stored.
func (c *WindowedCache[T]) GetForGeneration(ctx context.Context, generation uint64, force bool, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	var empty T

	c.mu.Lock()
	if !force && c.hasValue && c.nowFunc().Sub(c.fetchedAt) < c.interval {
		value := c.value
		c.mu.Unlock()
		return value, true, nil
	}
	c.mu.Unlock()

	resultChan := c.group.DoChan(strconv.FormatUint(generation, 10), func() (any, error) {
		startedAt := c.nowFunc()
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(generation, value, startedAt)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return empty, false, ctx.Err()
	case result := <-resultChan:
		if result.Err != nil {
			return empty, false, result.Err
		}
		return result.Val.(T), false, nil
	}
}

func (c *WindowedCache[T]) store(generation uint64, value T, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}

	c.value = value
	c.hasValue = true
	c.fetchedAt = fetchedAt
}

// Peek returns the cached value regardless of its age
func (c *WindowedCache[T]) Peek() (T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.value, c.fetchedAt, c.hasValue
}

// Invalidate drops the cached value and any fetch currently in flight
func (c *WindowedCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLocked()
}

// Reset invalidates the cache and changes the refresh interval
func (c *WindowedCache[T]) Reset(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interval = interval
	c.invalidateLocked()
}

func (c *WindowedCache[T]) invalidateLocked() {
	var empty T
	c.value = empty
	c.hasValue = false
	c.fetchedAt = time.Time{}
	c.generation++
}

// Interval is the current refresh interval, as set by NewWindowedCache or Reset
func (c *WindowedCache[T]) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.interval
}
