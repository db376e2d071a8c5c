package mcache

import lru "github.com/hashicorp/golang-lru/v2"

// Local is the in-process tier of the two-tier configuration cache
// (spec.md §3 Router/Rule-Executor/Typologies). golang-lru.Cache is already
// safe for concurrent readers and writers internally, which is the Go
// equivalent of the moka-like cache the original implementation reaches for
// — readers vastly outnumber writers, and writers only occur on a cache
// miss or a reload-event invalidation (spec.md §5).
type Local[T any] struct {
	cache *lru.Cache[string, T]
}

// NewLocal builds a local cache tier with the given entry capacity.
func NewLocal[T any](size int) (*Local[T], error) {
	c, err := lru.New[string, T](size)
	if err != nil {
		return nil, err
	}

	return &Local[T]{cache: c}, nil
}

// Get returns the cached value for key, if present.
func (l *Local[T]) Get(key string) (T, bool) {
	return l.cache.Get(key)
}

// Set populates the cache for key.
func (l *Local[T]) Set(key string, v T) {
	l.cache.Add(key, v)
}

// Remove evicts a single key, used when a reload event names a specific
// (id, version).
func (l *Local[T]) Remove(key string) {
	l.cache.Remove(key)
}

// Purge evicts everything, used when a reload event is a wildcard
// invalidation (e.g. any Routing reload invalidates the whole routing
// cache, since "active" may now point elsewhere).
func (l *Local[T]) Purge() {
	l.cache.Purge()
}
