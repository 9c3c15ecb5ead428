package session

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session record under a single key so token and
// principal can never be observed apart.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a Redis-backed persistence.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "courier:session"
	}
	return &RedisStore{client: client, key: key}
}

// Save replaces the stored record in one SET.
func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Load reads the stored record.
func (r *RedisStore) Load(ctx context.Context) (Record, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, true, nil
	}
	return rec, true, nil
}

// Clear deletes the stored record.
func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
