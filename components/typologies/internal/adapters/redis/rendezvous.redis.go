// Package redis is the Typologies stage's rendezvous adapter, a thin
// wrapper over pkg/mcache.Remote's SADD/SMEMBERS pipeline grounded on the
// teacher's libRedis.RedisConnection wrapper
// (components/transaction/internal/adapters/redis).
package redis

import (
	"context"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// RendezvousStore correlates per-message RuleResults into the set Typologies
// folds into TypologyResults, per spec.md §4.5 steps 1-2.
type RendezvousStore struct {
	cache *mcache.Remote
}

// NewRendezvousStore wraps an already-configured mcache.Remote.
func NewRendezvousStore(cache *mcache.Remote) *RendezvousStore {
	return &RendezvousStore{cache: cache}
}

// AddAndCollect registers result under msgID's rendezvous set and returns
// every RuleResult observed so far for that message, decoded.
func (s *RendezvousStore) AddAndCollect(ctx context.Context, msgID string, result mmodel.RuleResult) ([]mmodel.RuleResult, error) {
	body, err := mtransport.Encode(result)
	if err != nil {
		return nil, err
	}

	raw, err := s.cache.AddAndMembers(ctx, constant.TypologyRendezvousKey(msgID), body)
	if err != nil {
		return nil, err
	}

	out := make([]mmodel.RuleResult, 0, len(raw))

	for _, r := range raw {
		var rr mmodel.RuleResult
		if decodeErr := mtransport.Decode(r, &rr); decodeErr != nil {
			return nil, decodeErr
		}

		out = append(out, rr)
	}

	return out, nil
}

// Delete removes msgID's rendezvous set, called once every typology the
// routing declares has been evaluated.
func (s *RendezvousStore) Delete(ctx context.Context, msgID string) error {
	return s.cache.DeleteSnapshot(ctx, constant.TypologyRendezvousKey(msgID))
}
