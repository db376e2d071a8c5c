// Package redis is the Aggregator stage's rendezvous adapter over
// pkg/mcache.Remote's SADD/SCARD/SMEMBERS pipeline, grounded on the
// Typologies stage's adapters/redis.RendezvousStore.
package redis

import (
	"context"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// RendezvousStore correlates per-message TypologyResults into the set
// Aggregator folds into an AggregationResult, per spec.md §4.6 steps 1-4.
type RendezvousStore struct {
	cache *mcache.Remote
}

// NewRendezvousStore wraps an already-configured mcache.Remote.
func NewRendezvousStore(cache *mcache.Remote) *RendezvousStore {
	return &RendezvousStore{cache: cache}
}

// AddAndCount registers result under msgID's rendezvous set and returns the
// set's cardinality after the insert, the completion signal spec.md §4.6
// step 3 compares against the routing's declared typology count.
func (s *RendezvousStore) AddAndCount(ctx context.Context, msgID string, result mmodel.TypologyResult) (int64, error) {
	body, err := mtransport.Encode(result)
	if err != nil {
		return 0, err
	}

	return s.cache.AddAndCard(ctx, constant.AggregatorRendezvousKey(msgID), body)
}

// Collect decodes every TypologyResult observed so far for msgID, called
// once cardinality has reached completion.
func (s *RendezvousStore) Collect(ctx context.Context, msgID string) ([]mmodel.TypologyResult, error) {
	raw, err := s.cache.Members(ctx, constant.AggregatorRendezvousKey(msgID))
	if err != nil {
		return nil, err
	}

	out := make([]mmodel.TypologyResult, 0, len(raw))

	for _, r := range raw {
		var tr mmodel.TypologyResult
		if decodeErr := mtransport.Decode(r, &tr); decodeErr != nil {
			return nil, decodeErr
		}

		out = append(out, tr)
	}

	return out, nil
}

// Delete removes msgID's rendezvous set, called once the terminal
// aggregation has been persisted.
func (s *RendezvousStore) Delete(ctx context.Context, msgID string) error {
	return s.cache.DeleteSnapshot(ctx, constant.AggregatorRendezvousKey(msgID))
}
