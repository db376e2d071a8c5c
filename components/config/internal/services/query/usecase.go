// Package query holds the Config plane's read-side use cases: every lookup
// tries the Redis snapshot tier first and falls back to Postgres on a miss,
// repopulating the snapshot before returning (spec.md §4.1's read-through
// caching, the same one every other stage performs against the Config
// plane's RPC surface — here it's performed against the Config plane's own
// database). Grounded on the teacher's one-UseCase-per-package split
// (components/ledger/internal/services/query).
package query

import (
	"context"
	"time"

	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/rule"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/typology"
)

// SnapshotCache is the read-through snapshot port every Get* operation uses,
// narrowed from *mcache.Remote so tests can fake it.
//
//go:generate mockgen --destination=../../gen/mock/query/query_mock.go --package=mock . SnapshotCache
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, key string) ([]byte, bool, error)
	SetSnapshot(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// UseCase is the Config plane's read-side application service.
type UseCase struct {
	RoutingRepo  routing.Repository
	RuleRepo     rule.Repository
	TypologyRepo typology.Repository
	Cache        SnapshotCache
}
