// Package freshness decides whether a hive's live reading is trusted or
// replaced by its last known good values.
package freshness

import (
	"context"

	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

type Cache struct {
	repo repository.SensorCacheRepository
}

func New(repo repository.SensorCacheRepository) *Cache {
	return &Cache{repo: repo}
}

// Resolve returns the reading to display for hiveID.
//
// A connected reading is passed through and written to the cache. A
// disconnected one (temp, humidity and sound all zero) is replaced by the
// cached reading when there is one, with cached=true; otherwise the zeros
// are returned as they are. Storage errors degrade to a miss or a skipped
// write.
func (c *Cache) Resolve(ctx context.Context, hiveID string, live models.SensorReading) (models.SensorReading, bool) {
	if !live.Disconnected() {
		if err := c.repo.WriteReading(ctx, hiveID, live); err != nil {
			nuts.L.Warnf("[Freshness] Failed to cache reading for hive %s: %v", hiveID, err)
		}
		return live, false
	}

	cached, ok, err := c.repo.ReadReading(ctx, hiveID)
	if err != nil {
		nuts.L.Warnf("[Freshness] Failed to read cached reading for hive %s: %v", hiveID, err)
		return live, false
	}
	if !ok {
		return live, false
	}
	return cached, true
}

// Forget drops the cached reading of a deleted hive.
func (c *Cache) Forget(ctx context.Context, hiveID string) error {
	return c.repo.DeleteReading(ctx, hiveID)
}
