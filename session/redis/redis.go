// Package redis_session stores chat sessions and their history in Redis.
package redis_session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/webqa/session"
	"github.com/redis/go-redis/v9"
)

// Store keeps each session as a Redis list. An empty list cannot exist in
// Redis, so a marker key records that a session was created.
type Store struct {
	client     *redis.Client
	ttl        time.Duration
	maxHistory int
}

// NewRedisSessionStore wraps client. ttl 0 means sessions never expire.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, maxHistory int) *Store {
	return &Store{client: client, ttl: ttl, maxHistory: maxHistory}
}

func metaKey(id string) string    { return fmt.Sprintf("webqa:session:%s:meta", id) }
func historyKey(id string) string { return fmt.Sprintf("webqa:session:%s:history", id) }

func (store *Store) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := store.client.Set(ctx, metaKey(id), time.Now().UTC().Format(time.RFC3339), store.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (store *Store) exists(ctx context.Context, id string) error {
	n, err := store.client.Exists(ctx, metaKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (store *Store) Get(ctx context.Context, id string) ([]string, error) {
	if err := store.exists(ctx, id); err != nil {
		return nil, err
	}
	return store.client.LRange(ctx, historyKey(id), 0, -1).Result()
}

func (store *Store) Append(ctx context.Context, id string, entries ...string) ([]string, error) {
	if err := store.exists(ctx, id); err != nil {
		return nil, err
	}
	values := make([]interface{}, len(entries))
	for i, e := range entries {
		values[i] = e
	}
	pipe := store.client.TxPipeline()
	if len(values) > 0 {
		pipe.RPush(ctx, historyKey(id), values...)
	}
	if store.maxHistory > 0 {
		pipe.LTrim(ctx, historyKey(id), int64(-store.maxHistory), -1)
	}
	if store.ttl > 0 {
		pipe.Expire(ctx, metaKey(id), store.ttl)
		pipe.Expire(ctx, historyKey(id), store.ttl)
	}
	history := pipe.LRange(ctx, historyKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return history.Val(), nil
}

func (store *Store) Close() error { return store.client.Close() }
