package hubservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/beemind/hub/internal/classifier"
	"github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/notifications"
	nuts "github.com/vaudience/go-nuts"
)

// HiveDetail is one hive with its diagnostics and notifications.
type HiveDetail struct {
	Hive          models.Hive           `json:"hive"`
	Reason        string                `json:"reason,omitempty"`
	Notifications []models.Notification `json:"notifications"`
}

// ListHives returns the current hive collection with recency filled in.
func (s *HubService) ListHives() []models.Hive {
	return s.Store.Snapshot(s.now()).Hives
}

// GetHive returns one hive with the warning sub-condition that fired, if any.
func (s *HubService) GetHive(id string) (*HiveDetail, error) {
	now := s.now()
	h, ok := s.Store.Hive(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("hive %s not found", id), nil)
	}
	h.LastUpdate = models.Recency(h.UpdatedAt, now)

	detail := &HiveDetail{
		Hive:          h,
		Notifications: notifications.Derive([]models.Hive{h}, now),
	}
	if h.Status != models.StatusStable {
		detail.Reason = classifier.Reason(classifier.FromSensor(h.Reading()))
	}
	return detail, nil
}

// AddHive validates a user-added hive and inserts it with the next free id.
// Duplicate names and serials are compared trimmed and case-insensitively.
func (s *HubService) AddHive(ctx context.Context, in models.NewHive) (models.Hive, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.DeviceSerial = strings.TrimSpace(in.DeviceSerial)

	if err := validateNewHive(in); err != nil {
		return models.Hive{}, err
	}

	s.addMu.Lock()
	defer s.addMu.Unlock()

	for _, h := range s.Store.Hives() {
		if in.DeviceSerial != "" && strings.EqualFold(strings.TrimSpace(h.DeviceSerial), in.DeviceSerial) {
			return models.Hive{}, errors.NewConflictError("a hive with this device serial already exists", nil).
				WithDetails(map[string]string{"field": "deviceSerial", "hiveId": h.ID})
		}
		if strings.EqualFold(strings.TrimSpace(h.Name), in.Name) {
			return models.Hive{}, errors.NewConflictError("a hive with this name already exists", nil).
				WithDetails(map[string]string{"field": "name", "hiveId": h.ID})
		}
	}

	hive := s.Store.AddHive(in, s.now())
	nuts.L.Infof("[HubService] Added hive %s (%s)", hive.Name, hive.ID)

	if err := s.persistLocal(ctx, hive); err != nil {
		nuts.L.Warnf("[HubService] Failed to persist hive %s: %v", hive.ID, err)
	}
	s.Monitoring.RecordEvent("hive_creation", map[string]string{"hive_id": hive.ID})
	return hive, nil
}

func validateNewHive(in models.NewHive) error {
	if in.Name == "" {
		return errors.NewValidationError("hive name is required", nil).
			WithDetails(map[string]string{"field": "name"})
	}
	if in.Lat < -90 || in.Lat > 90 {
		return errors.NewValidationError("latitude must be within [-90, 90]", nil).
			WithDetails(map[string]string{"field": "lat"})
	}
	if in.Lng < -180 || in.Lng > 180 {
		return errors.NewValidationError("longitude must be within [-180, 180]", nil).
			WithDetails(map[string]string{"field": "lng"})
	}
	return nil
}

func (s *HubService) persistLocal(ctx context.Context, hive models.Hive) error {
	local, err := s.State.LocalHives(ctx)
	if err != nil {
		return err
	}
	return s.State.SaveLocalHives(ctx, append(local, hive))
}

// DeleteHive removes a hive and its cached reading.
func (s *HubService) DeleteHive(ctx context.Context, id string) error {
	return s.Cleanup.DeleteHive(ctx, id)
}

// HiveChart returns a known hive's history from the remote API.
func (s *HubService) HiveChart(ctx context.Context, id string) ([]models.ChartPoint, error) {
	if _, ok := s.Store.Hive(id); !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("hive %s not found", id), nil)
	}
	return s.api.FetchChart(ctx, id)
}
