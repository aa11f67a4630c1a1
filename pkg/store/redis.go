package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Cmdable used by the Redis store.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis stores each blob under "<prefix>page:<id>" without expiry.
type Redis struct {
	client RedisClient
	prefix string
}

// NewRedis wraps a client, typically *redis.Client.
func NewRedis(client RedisClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(pageID int64) string {
	return r.prefix + "page:" + strconv.FormatInt(pageID, 10)
}

func (r *Redis) Put(ctx context.Context, pageID int64, blob []byte) error {
	if err := validatePut(pageID, blob); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(pageID), blob, 0).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, pageID int64) ([]byte, error) {
	if err := validateID(pageID); err != nil {
		return nil, err
	}
	blob, err := r.client.Get(ctx, r.key(pageID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	return blob, nil
}

func (r *Redis) GetMany(ctx context.Context, pageIDs []int64) (map[int64][]byte, error) {
	ids := normalizeIDs(pageIDs)
	out := make(map[int64][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Join(ErrBackend, err)
	}
	for i, v := range vals {
		// MGET yields nil for missing keys and strings otherwise
		if s, ok := v.(string); ok && i < len(ids) {
			out[ids[i]] = []byte(s)
		}
	}
	return out, nil
}

func (r *Redis) Delete(ctx context.Context, pageID int64) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(pageID)).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}
