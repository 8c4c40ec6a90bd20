package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	BackendDisk     = "disk"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type NewStoreParams struct {
	Backend  string
	RootPath string
	DB       *pgxpool.Pool
	Redis    *redis.Client
	// zero disables the read cache
	CacheSizeBytes int
}

// New builds the store for the configured backend, optionally behind the read cache
func New(ctx context.Context, params NewStoreParams) (Store, error) {
	var store Store
	switch params.Backend {
	case BackendDisk, "":
		diskStore, err := NewDiskStore(params.RootPath)
		if err != nil {
			return nil, fmt.Errorf("new disk store: %w", err)
		}
		store = diskStore
	case BackendPostgres:
		if params.DB == nil {
			return nil, errors.New("postgres blob backend needs a db pool")
		}
		psqlStore := NewPsqlStore(params.DB)
		if err := psqlStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = psqlStore
	case BackendRedis:
		if params.Redis == nil {
			return nil, errors.New("redis blob backend needs a redis client")
		}
		store = NewRedisStore(params.Redis)
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", params.Backend)
	}

	log.Debugf("blob store: using %q backend", params.Backend)

	if params.CacheSizeBytes > 0 {
		return NewCachedStore(store, params.CacheSizeBytes), nil
	}
	return store, nil
}
