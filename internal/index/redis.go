package index

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisHashKey holds every entry as one hash field per URL.
const RedisHashKey = "webqa:index"

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, url string) (string, bool, error) {
	val, err := r.client.HGet(ctx, RedisHashKey, url).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Put(ctx context.Context, url, text string) error {
	return r.client.HSet(ctx, RedisHashKey, url, text).Err()
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	urls, err := r.client.HKeys(ctx, RedisHashKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(urls)
	return urls, nil
}

func (r *Redis) Close() error { return r.client.Close() }
