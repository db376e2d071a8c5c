// Package mcache implements the two-tier configuration cache (local
// in-process LRU + remote Redis snapshot, with RPC fallback on full miss)
// and the rendezvous-set primitives Typologies and Aggregator use to
// correlate partial results. Grounded on the teacher's
// libRedis.RedisConnection wrapper (components/transaction/internal/adapters/redis)
// and, for the local tier, on github.com/hashicorp/golang-lru/v2 as used by
// the ipiton-alert-history-service example.
package mcache

import (
	"context"
	"time"

	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	"github.com/redis/go-redis/v9"
)

// Remote is the Redis-backed tier: binary config snapshots, the Intake
// data-cache, and rendezvous sets all live here (spec.md §6).
type Remote struct {
	conn *libRedis.RedisConnection
}

// NewRemote wraps an already-configured RedisConnection.
func NewRemote(conn *libRedis.RedisConnection) *Remote {
	return &Remote{conn: conn}
}

func (r *Remote) client(ctx context.Context) (redis.UniversalClient, error) {
	return r.conn.GetClient(ctx)
}

// GetSnapshot reads a binary-encoded value, reporting (false, nil) on a
// cache miss rather than an error.
func (r *Remote) GetSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, false, err
	}

	val, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return val, true, nil
}

// SetSnapshot writes a binary-encoded value with an optional TTL (ttl <= 0
// means no expiry, used for config snapshots; a positive ttl is used for
// Intake's DataCache entries per spec.md §4.2 step 4).
func (r *Remote) SetSnapshot(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, value, ttl).Err()
}

// DeleteSnapshot removes a key, used by the Config plane on mutation and by
// the completing rendezvous reader.
func (r *Remote) DeleteSnapshot(ctx context.Context, key string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	return client.Del(ctx, key).Err()
}
