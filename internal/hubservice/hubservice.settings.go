package hubservice

import (
	"context"
	"strings"

	"github.com/beemind/hub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

const maxLocationLength = 120

// Location returns the weather location in effect.
func (s *HubService) Location(ctx context.Context) string {
	return s.Reconciler.Location(ctx)
}

// SetLocation stores the weather location and fetches weather for it.
func (s *HubService) SetLocation(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.NewValidationError("location is required", nil)
	}
	if len(location) > maxLocationLength {
		return errors.NewValidationError("location is too long", nil)
	}
	if err := s.State.SaveLocation(ctx, location); err != nil {
		return errors.NewStorageError("failed to save location", err)
	}
	nuts.L.Infof("[HubService] Weather location set to %q", location)

	if err := s.Scheduler.RefreshWeather(); err != nil {
		// Not polling yet; the first scheduled run picks the location up.
		nuts.L.Infof("[HubService] Weather refresh deferred: %v", err)
	}
	return nil
}
