package mcache

import (
	"context"
	"time"

	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// Fetcher hits the Config plane (by RPC) to resolve a configuration entity
// on a full cache miss.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Resolver is the single generic implementation of the "mutate -> invalidate
// -> publish -> reload-listeners" two-tier lookup shared, per spec.md §9's
// design note, by Routing, Rule and Typology resolution — rather than
// duplicating the local-cache/remote-cache/RPC-fallback plumbing three
// times, Router/Rule-Executor/Typologies each hold one Resolver[T]
// instantiated for their entity type.
type Resolver[T any] struct {
	local  *Local[T]
	remote *Remote
	ttl    time.Duration
}

// NewResolver builds a Resolver. remote may be nil when a stage chooses to
// rely on local cache + RPC only.
func NewResolver[T any](local *Local[T], remote *Remote, ttl time.Duration) *Resolver[T] {
	return &Resolver[T]{local: local, remote: remote, ttl: ttl}
}

// Resolve looks up key in the local tier, then the remote tier, then falls
// back to fetch (an RPC to the Config plane), populating both tiers on the
// way back out. A remote-tier population failure is tolerated (spec.md
// §4.1's "cache population errors are logged but never block the
// response") — resolution still succeeds, it simply repeats the RPC next
// time.
func (r *Resolver[T]) Resolve(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	if v, ok := r.local.Get(key); ok {
		return v, nil
	}

	if r.remote != nil {
		if data, ok, err := r.remote.GetSnapshot(ctx, key); err == nil && ok {
			var v T
			if decodeErr := mtransport.Decode(data, &v); decodeErr == nil {
				r.local.Set(key, v)
				return v, nil
			}
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	r.local.Set(key, v)

	if r.remote != nil {
		if data, encErr := mtransport.Encode(v); encErr == nil {
			_ = r.remote.SetSnapshot(ctx, key, data, r.ttl)
		}
	}

	return v, nil
}

// Invalidate evicts a single key from the local tier, called by a stage's
// reload listener for a scoped (id, version) reload.
func (r *Resolver[T]) Invalidate(key string) {
	r.local.Remove(key)
}

// InvalidateAll evicts the entire local tier, called when a reload can't be
// scoped to one key (e.g. any Routing reload, since a new routing may now be
// the active one under the same "routing.active" key).
func (r *Resolver[T]) InvalidateAll() {
	r.local.Purge()
}
