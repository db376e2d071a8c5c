package redis

import (
	"context"
	"testing"

	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/alicebob/miniredis/v2"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRendezvousStore(t *testing.T) *RendezvousStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	conn := &libRedis.RedisConnection{
		Address: []string{mr.Addr()},
		Logger:  libZap.InitializeLogger(),
	}

	return NewRendezvousStore(mcache.NewRemote(conn))
}

func TestRendezvousStore_AddAndCollect_AccumulatesAcrossCalls(t *testing.T) {
	store := newTestRendezvousStore(t)
	ctx := context.Background()

	_, err := store.AddAndCollect(ctx, "msg-1", mmodel.RuleResult{ID: "rule-a", Version: "v1"})
	require.NoError(t, err)

	results, err := store.AddAndCollect(ctx, "msg-1", mmodel.RuleResult{ID: "rule-b", Version: "v1"})
	require.NoError(t, err)

	ids := []string{results[0].ID, results[1].ID}
	assert.ElementsMatch(t, []string{"rule-a", "rule-b"}, ids)
}

func TestRendezvousStore_Delete_RemovesTheSet(t *testing.T) {
	store := newTestRendezvousStore(t)
	ctx := context.Background()

	_, err := store.AddAndCollect(ctx, "msg-1", mmodel.RuleResult{ID: "rule-a"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "msg-1"))

	results, err := store.AddAndCollect(ctx, "msg-1", mmodel.RuleResult{ID: "rule-b"})
	require.NoError(t, err)
	assert.Len(t, results, 1, "the set should have been cleared by Delete")
}
