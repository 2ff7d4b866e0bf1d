package hubservice

import (
	"context"
	"fmt"

	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/database"
	"github.com/beemind/hub/internal/repository"
	"github.com/beemind/hub/internal/repository/memory"
	"github.com/beemind/hub/internal/repository/postgres"
	"github.com/beemind/hub/internal/repository/redis"
	nuts "github.com/vaudience/go-nuts"
)

// OpenKVStore connects the configured storage backend.
func OpenKVStore(ctx context.Context, cfg config.StorageConfig) (repository.KVStore, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		nuts.L.Warnf("[HubService] Using in-memory storage; cached readings do not survive restarts")
		return memory.NewKVStore(), nil

	case config.StorageRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewKVStore(client), nil

	case config.StoragePostgres:
		db, err := database.NewPostgresDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		kv, err := postgres.NewKVStore(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
