package redis

import (
	"context"
	"testing"
	"time"

	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/alicebob/miniredis/v2"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataCacheStore(t *testing.T, ttl time.Duration) *DataCacheStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	conn := &libRedis.RedisConnection{
		Address: []string{mr.Addr()},
		Logger:  libZap.InitializeLogger(),
	}

	return NewDataCacheStore(mcache.NewRemote(conn), ttl)
}

func TestDataCacheStore_Get_MissReturnsFalseNotError(t *testing.T) {
	store := newTestDataCacheStore(t, time.Minute)

	dc, ok, err := store.Get(context.Background(), "e2e-missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, mmodel.DataCache{}, dc)
}

func TestDataCacheStore_SetThenGet_RoundTrips(t *testing.T) {
	store := newTestDataCacheStore(t, time.Minute)

	in := mmodel.DataCache{DebtorID: "debtor-1", CreditorID: "creditor-1"}
	require.NoError(t, store.Set(context.Background(), "e2e-1", in))

	out, ok, err := store.Get(context.Background(), "e2e-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}
