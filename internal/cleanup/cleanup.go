package cleanup

import (
	"context"
	"fmt"

	apierrors "github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Cleanup events. Handlers receive the hive id.
const (
	EventHiveDeleted    = "hive.deleted"
	EventReadingDeleted = "reading.deleted"
	EventLocalUpdated   = "local.updated"
)

// HiveStore is the in-memory collection a hive is removed from.
type HiveStore interface {
	DeleteHive(id string) bool
}

// ReadingCache holds the last known good readings.
type ReadingCache interface {
	Forget(ctx context.Context, hiveID string) error
}

// LocalHives is the persisted user-added hive collection.
type LocalHives interface {
	LocalHives(ctx context.Context) ([]models.Hive, error)
	SaveLocalHives(ctx context.Context, hives []models.Hive) error
}

// CleanupService coordinates deletion of a hive and the state tied to it
type CleanupService struct {
	store  HiveStore
	cache  ReadingCache
	local  LocalHives
	events *nuts.EventEmitter
}

// New creates a new CleanupService
func New(store HiveStore, cache ReadingCache, local LocalHives) *CleanupService {
	return &CleanupService{
		store:  store,
		cache:  cache,
		local:  local,
		events: nuts.NewEventEmitter(),
	}
}

// DeleteHive removes a hive from the collection, then drops its cached
// reading and its entry in the persisted user hives. Only the collection
// removal can fail the call; the rest is logged.
func (s *CleanupService) DeleteHive(ctx context.Context, hiveID string) error {
	if !s.store.DeleteHive(hiveID) {
		return apierrors.NewNotFoundError(fmt.Sprintf("hive %s not found", hiveID), nil)
	}

	if err := s.cache.Forget(ctx, hiveID); err != nil {
		nuts.L.Warnf("[Cleanup] Failed to drop cached reading of hive %s: %v", hiveID, err)
	} else {
		s.events.Emit(EventReadingDeleted, hiveID)
	}

	if err := s.removeLocal(ctx, hiveID); err != nil {
		nuts.L.Warnf("[Cleanup] Failed to update local hives after deleting %s: %v", hiveID, err)
	}

	// Emit event after successful deletion
	s.events.Emit(EventHiveDeleted, hiveID)
	return nil
}

func (s *CleanupService) removeLocal(ctx context.Context, hiveID string) error {
	hives, err := s.local.LocalHives(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Hive, 0, len(hives))
	for _, h := range hives {
		if h.ID != hiveID {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(hives) {
		return nil
	}
	if err := s.local.SaveLocalHives(ctx, kept); err != nil {
		return err
	}
	s.events.Emit(EventLocalUpdated, hiveID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, nuts.NID("cleanup", 8), func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
