// Package redis is Intake's data-cache adapter: the enriched DataCache
// snapshot every downstream stage's rules and typologies read, stored at
// `{end_to_end_id}` with a configured TTL per spec.md §4.2 step 4, grounded
// on the Typologies stage's adapters/redis.RendezvousStore.
package redis

import (
	"context"
	"time"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// DataCacheStore reads and writes the per-transaction enrichment cache.
type DataCacheStore struct {
	cache *mcache.Remote
	ttl   time.Duration
}

// NewDataCacheStore wraps an already-configured mcache.Remote, applying ttl
// to every write.
func NewDataCacheStore(cache *mcache.Remote, ttl time.Duration) *DataCacheStore {
	return &DataCacheStore{cache: cache, ttl: ttl}
}

// Get returns the cached DataCache for endToEndID, if any.
func (s *DataCacheStore) Get(ctx context.Context, endToEndID string) (mmodel.DataCache, bool, error) {
	raw, ok, err := s.cache.GetSnapshot(ctx, constant.DataCacheKey(endToEndID))
	if err != nil || !ok {
		return mmodel.DataCache{}, false, err
	}

	var dc mmodel.DataCache
	if err := mtransport.Decode(raw, &dc); err != nil {
		return mmodel.DataCache{}, false, err
	}

	return dc, true, nil
}

// Set writes dc at endToEndID's key with the store's configured TTL. Per
// spec.md §4.2's idempotence note, concurrent writes are last-writer-wins.
func (s *DataCacheStore) Set(ctx context.Context, endToEndID string, dc mmodel.DataCache) error {
	body, err := mtransport.Encode(dc)
	if err != nil {
		return err
	}

	return s.cache.SetSnapshot(ctx, constant.DataCacheKey(endToEndID), body, s.ttl)
}
