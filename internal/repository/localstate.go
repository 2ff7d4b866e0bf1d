// FilePath: internal/repository/localstate.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beemind/hub/internal/models"
)

const (
	keySensorCache   = "sensor-cache:"
	keyLocalHives    = "hives:local"
	keyLocation      = "settings:location"
	keyConnectedOnce = "api:connected-once"
	keyWeather       = "weather:"
)

// SensorCacheRepository persists the last known good reading per hive.
type SensorCacheRepository interface {
	ReadReading(ctx context.Context, hiveID string) (models.SensorReading, bool, error)
	WriteReading(ctx context.Context, hiveID string, reading models.SensorReading) error
	DeleteReading(ctx context.Context, hiveID string) error
}

// LocalState is the hub's persisted key-value state: sensor cache, user-added
// hives, the configured location and the weather cache. Values are JSON.
type LocalState struct {
	kv     KVStore
	prefix string
}

func NewLocalState(kv KVStore, prefix string) *LocalState {
	return &LocalState{kv: kv, prefix: prefix}
}

func (s *LocalState) key(k string) string {
	return s.prefix + k
}

func (s *LocalState) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, s.key(key))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalState) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, s.key(key), string(raw), ttl); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *LocalState) ReadReading(ctx context.Context, hiveID string) (models.SensorReading, bool, error) {
	var r models.SensorReading
	ok, err := s.getJSON(ctx, keySensorCache+hiveID, &r)
	return r, ok, err
}

func (s *LocalState) WriteReading(ctx context.Context, hiveID string, reading models.SensorReading) error {
	return s.setJSON(ctx, keySensorCache+hiveID, reading, 0)
}

func (s *LocalState) DeleteReading(ctx context.Context, hiveID string) error {
	return s.kv.Delete(ctx, s.key(keySensorCache+hiveID))
}

// LocalHives returns the user-added hive collection, nil if none was saved.
func (s *LocalState) LocalHives(ctx context.Context) ([]models.Hive, error) {
	var hives []models.Hive
	if _, err := s.getJSON(ctx, keyLocalHives, &hives); err != nil {
		return nil, err
	}
	return hives, nil
}

func (s *LocalState) SaveLocalHives(ctx context.Context, hives []models.Hive) error {
	return s.setJSON(ctx, keyLocalHives, hives, 0)
}

// Location returns the user-configured weather location, "" when unset.
func (s *LocalState) Location(ctx context.Context) (string, error) {
	var loc string
	if _, err := s.getJSON(ctx, keyLocation, &loc); err != nil {
		return "", err
	}
	return loc, nil
}

func (s *LocalState) SaveLocation(ctx context.Context, location string) error {
	return s.setJSON(ctx, keyLocation, location, 0)
}

// MarkConnected records that the remote API answered at least once.
func (s *LocalState) MarkConnected(ctx context.Context, at time.Time) error {
	return s.setJSON(ctx, keyConnectedOnce, at, 0)
}

func (s *LocalState) EverConnected(ctx context.Context) (bool, error) {
	var at time.Time
	return s.getJSON(ctx, keyConnectedOnce, &at)
}

// CachedWeather returns a weather value cached for location, if still fresh.
func (s *LocalState) CachedWeather(ctx context.Context, location string) (*models.Weather, error) {
	var w models.Weather
	ok, err := s.getJSON(ctx, keyWeather+location, &w)
	if err != nil || !ok {
		return nil, err
	}
	return &w, nil
}

func (s *LocalState) CacheWeather(ctx context.Context, location string, w *models.Weather, ttl time.Duration) error {
	return s.setJSON(ctx, keyWeather+location, w, ttl)
}

func (s *LocalState) Close() error {
	return s.kv.Close()
}
