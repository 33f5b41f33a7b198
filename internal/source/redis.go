package source

import (
	"context"
	"fmt"

	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/redis"
)

// SnapshotStore is the part of redis.Client a RedisSource needs.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, key string) (*notion.QueryResult, error)
	Close() error
}

// RedisSource reads the batch cached by "opsboard sync".
type RedisSource struct {
	store SnapshotStore
	key   string
	info  SourceInfo
}

// NewRedisSource creates a source reading key, or redis.SnapshotKey when
// key is empty. The source owns store and closes it.
func NewRedisSource(store SnapshotStore, key string) *RedisSource {
	if key == "" {
		key = redis.SnapshotKey
	}
	return &RedisSource{
		store: store,
		key:   key,
		info: SourceInfo{
			Type:        SourceTypeRedis,
			Name:        "redis:" + key,
			Description: fmt.Sprintf("Cached snapshot at %s", key),
			Config: Metadata{
				"key": key,
			},
		},
	}
}

// Info returns metadata about this source.
func (r *RedisSource) Info() SourceInfo {
	return r.info
}

// Fetch loads the cached batch.
func (r *RedisSource) Fetch(ctx context.Context) (*notion.QueryResult, error) {
	return r.store.GetSnapshot(ctx, r.key)
}

// Close closes the underlying store.
func (r *RedisSource) Close() error {
	return r.store.Close()
}
