package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// FetchFunc performs the expensive upstream call on a cache miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader reads through a cache: hits are served from it, misses call the
// fetch function and store its result. Concurrent misses for the same key
// share a single fetch.
type Loader[T any] struct {
	cache Cacher[T]
	group singleflight.Group
}

// NewLoader creates a loader over c.
func NewLoader[T any](c Cacher[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Load returns the cached value for key or fetches, stores and returns it.
// Fetch errors are returned unchanged and nothing is stored. Waiting callers
// return early with ctx.Err() if their context ends first; the shared fetch
// keeps running for the others and runs with ctx's values but not its
// cancellation.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		// Another flight may have filled the entry while we queued.
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}

		// The flight outlives any single caller; each waiter leaves through
		// its own ctx below.
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		l.cache.Put(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	}
}

// LoadParams derives the key from params and calls Load. Key-derivation
// errors are returned since no safe key exists for such parameters.
func (l *Loader[T]) LoadParams(ctx context.Context, fetch FetchFunc[T], params ...any) (T, error) {
	key, err := DeriveKey(params...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("deriving cache key: %w", err)
	}
	return l.Load(ctx, key, fetch)
}
