package query

import (
	"context"
	"testing"
	"time"

	mockrouting "github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	mockquery "github.com/fraudmesh/evalengine/components/config/internal/gen/mock/query"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newInMemorySnapshotCache(ctrl *gomock.Controller) (*mockquery.MockSnapshotCache, map[string][]byte) {
	entries := map[string][]byte{}
	cache := mockquery.NewMockSnapshotCache(ctrl)

	cache.EXPECT().GetSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key string) ([]byte, bool, error) {
			v, ok := entries[key]
			return v, ok, nil
		}).AnyTimes()

	cache.EXPECT().SetSnapshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key string, value []byte, _ time.Duration) error {
			entries[key] = value
			return nil
		}).AnyTimes()

	return cache, entries
}

func TestGetActiveRouting_ServesFromSnapshotWithoutHittingRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache, entries := newInMemorySnapshotCache(ctrl)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Times(0)

	data, err := mtransport.Encode(mmodel.RoutingConfiguration{UUID: "cached"})
	require.NoError(t, err)
	entries["routing.active"] = data

	uc := &UseCase{RoutingRepo: repo, Cache: cache}

	cfg, err := uc.GetActiveRouting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", cfg.UUID)
}

func TestGetActiveRouting_FallsBackToRepoAndRepopulatesSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache, entries := newInMemorySnapshotCache(ctrl)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(&mmodel.RoutingConfiguration{UUID: "from-db"}, nil)

	uc := &UseCase{RoutingRepo: repo, Cache: cache}

	cfg, err := uc.GetActiveRouting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-db", cfg.UUID)
	assert.Contains(t, entries, "routing.active", "a repo fallback should repopulate the snapshot")
}
