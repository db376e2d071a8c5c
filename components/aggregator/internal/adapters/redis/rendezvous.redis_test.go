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

func TestRendezvousStore_AddAndCount_ReturnsCardinalityAfterInsert(t *testing.T) {
	store := newTestRendezvousStore(t)
	ctx := context.Background()

	count, err := store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-b"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRendezvousStore_Collect_DecodesEveryTypologyResult(t *testing.T) {
	store := newTestRendezvousStore(t)
	ctx := context.Background()

	_, err := store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-a"})
	require.NoError(t, err)
	_, err = store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-b"})
	require.NoError(t, err)

	results, err := store.Collect(ctx, "msg-1")
	require.NoError(t, err)

	ids := []string{results[0].ID, results[1].ID}
	assert.ElementsMatch(t, []string{"typ-a", "typ-b"}, ids)
}

func TestRendezvousStore_Delete_RemovesTheSet(t *testing.T) {
	store := newTestRendezvousStore(t)
	ctx := context.Background()

	_, err := store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-a"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "msg-1"))

	count, err := store.AddAndCount(ctx, "msg-1", mmodel.TypologyResult{ID: "typ-b"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "the set should have been cleared by Delete")
}
