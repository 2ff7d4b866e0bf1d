// FilePath: internal/reconciler/reconciler.seed.go
package reconciler

import (
	"context"
	"time"

	"github.com/beemind/hub/internal/classifier"
	"github.com/beemind/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SeedHives is the demo apiary shown until the hive API answers.
func SeedHives(now time.Time) []models.Hive {
	seed := []models.Hive{
		{ID: "01", Name: "Hive Alpha", Location: "North Meadow", DeviceSerial: "BM-1001", Lat: 41.3111, Lng: 69.2797, Temp: 34.8, Humidity: 58, Sound: 420, Battery: 86, Weight: 41.2},
		{ID: "02", Name: "Hive Beta", Location: "North Meadow", DeviceSerial: "BM-1002", Lat: 41.3125, Lng: 69.2811, Temp: 35.6, Humidity: 84, Sound: 510, Battery: 72, Weight: 38.7},
		{ID: "03", Name: "Hive Gamma", Location: "Orchard", DeviceSerial: "BM-1003", Lat: 41.3052, Lng: 69.2703, Temp: 39.4, Humidity: 61, Sound: 880, Battery: 64, Weight: 44.9},
		{ID: "04", Name: "Hive Delta", Location: "Orchard", DeviceSerial: "BM-1004", Lat: 41.3047, Lng: 69.2719, Temp: 34.1, Humidity: 55, Sound: 390, Battery: 15, Weight: 36.3},
	}
	for i := range seed {
		seed[i].UpdatedAt = now
		seed[i] = classifier.Apply(seed[i])
	}
	return seed
}

// BootState is the persisted state consulted at cold start.
type BootState interface {
	EverConnected(ctx context.Context) (bool, error)
	LocalHives(ctx context.Context) ([]models.Hive, error)
}

// InitialHives picks the collection shown before the first fetch: the
// user-added hives if the API has never answered, the seed set otherwise.
// Local hives keep the status they were saved with; they carry no readings
// to classify.
func InitialHives(ctx context.Context, state BootState, now time.Time) []models.Hive {
	connected, err := state.EverConnected(ctx)
	if err != nil {
		nuts.L.Warnf("[Reconciler] Failed to read connectivity marker: %v", err)
	}
	if !connected {
		local, err := state.LocalHives(ctx)
		if err != nil {
			nuts.L.Warnf("[Reconciler] Failed to read local hives: %v", err)
		}
		if len(local) > 0 {
			nuts.L.Infof("[Reconciler] Starting from %d locally added hives", len(local))
			return local
		}
	}
	return SeedHives(now)
}
