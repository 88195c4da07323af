// Package index persists the extracted text of every indexed URL.
package index

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/webqa/config"
	"github.com/redis/go-redis/v9"
)

// Store maps a URL to its indexed text. Put overwrites any previous entry.
type Store interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Put(ctx context.Context, url, text string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

type StoreType string

const (
	FileStore     StoreType = "file"
	RedisStore    StoreType = "redis"
	PostgresStore StoreType = "postgres"
	SQLiteStore   StoreType = "sqlite"
)

// NewStore opens the backend named by cfg.Index.Backend.
func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch StoreType(cfg.Index.Backend) {
	case FileStore:
		return OpenFile(cfg.Index.Path)
	case RedisStore:
		rdb := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.Timeout,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis connection failed (%s): %w", cfg.Redis.Addr(), err)
		}
		return NewRedis(rdb), nil
	case PostgresStore:
		return OpenPostgres(ctx, cfg.Postgres.DSN())
	case SQLiteStore:
		return OpenSQLite(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported index store type: %s", cfg.Index.Backend)
	}
}
