// Package store holds the hub's view model: the hive collection, the
// connectivity flag, the gateway and the weather.
package store

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/notifications"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted after a state change. Handlers receive the new value.
const (
	EventHivesChanged        = "hives.changed"
	EventGatewayChanged      = "gateway.changed"
	EventWeatherChanged      = "weather.changed"
	EventConnectivityChanged = "connectivity.changed"
)

// ViewModel is a consistent read of the store.
type ViewModel struct {
	Hives         []models.Hive         `json:"hives"`
	APIConnected  bool                  `json:"apiConnected"`
	LastAPIUpdate *time.Time            `json:"lastApiUpdate"`
	Loading       bool                  `json:"loading"`
	Error         string                `json:"error,omitempty"`
	Gateway       models.Gateway        `json:"gateway"`
	Weather       *models.Weather       `json:"weather"`
	Notifications []models.Notification `json:"notifications"`
}

type Store struct {
	mu            sync.RWMutex
	hives         []models.Hive
	apiConnected  bool
	lastAPIUpdate *time.Time
	loading       bool
	lastError     string
	gateway       models.Gateway
	weather       *models.Weather

	events *nuts.EventEmitter
}

// New returns a store seeded with hives, an offline gateway and no weather.
// It reports loading until the first hive fetch completes.
func New(seed []models.Hive) *Store {
	return &Store{
		hives:   models.CloneHives(seed),
		loading: true,
		gateway: models.OfflineGateway(),
		events:  nuts.NewEventEmitter(),
	}
}

// Snapshot returns the current view model with display recency and
// notifications computed for now.
func (s *Store) Snapshot(now time.Time) ViewModel {
	s.mu.RLock()
	vm := ViewModel{
		Hives:        models.CloneHives(s.hives),
		APIConnected: s.apiConnected,
		Loading:      s.loading,
		Error:        s.lastError,
		Gateway:      s.gateway,
	}
	if s.lastAPIUpdate != nil {
		t := *s.lastAPIUpdate
		vm.LastAPIUpdate = &t
	}
	if s.weather != nil {
		w := *s.weather
		vm.Weather = &w
	}
	s.mu.RUnlock()

	for i := range vm.Hives {
		vm.Hives[i].LastUpdate = models.Recency(vm.Hives[i].UpdatedAt, now)
	}
	if vm.Hives == nil {
		vm.Hives = []models.Hive{}
	}
	vm.Notifications = notifications.Derive(vm.Hives, now)
	return vm
}

// Hives returns a copy of the hive collection.
func (s *Store) Hives() []models.Hive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneHives(s.hives)
}

// Hive looks up one hive by id.
func (s *Store) Hive(id string) (models.Hive, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hives {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hive{}, false
}

// ReplaceHives swaps in a whole new hive collection.
func (s *Store) ReplaceHives(hives []models.Hive) {
	next := models.CloneHives(hives)
	s.mu.Lock()
	s.hives = next
	s.mu.Unlock()
	s.events.Emit(EventHivesChanged, models.CloneHives(next))
}

// SetConnected records the outcome of a hive fetch. A success stamps the
// update time and clears the error; a failure keeps the last update time.
func (s *Store) SetConnected(connected bool, at time.Time, fetchErr error) {
	s.mu.Lock()
	changed := s.apiConnected != connected
	s.apiConnected = connected
	s.loading = false
	if connected {
		t := at
		s.lastAPIUpdate = &t
		s.lastError = ""
	} else if fetchErr != nil {
		s.lastError = fetchErr.Error()
	}
	s.mu.Unlock()

	if changed {
		s.events.Emit(EventConnectivityChanged, connected)
	}
}

func (s *Store) SetGateway(g models.Gateway) {
	s.mu.Lock()
	s.gateway = g
	s.mu.Unlock()
	s.events.Emit(EventGatewayChanged, g)
}

// SetWeather replaces the weather. A nil value is ignored so a failed
// resolution never blanks a known forecast.
func (s *Store) SetWeather(w *models.Weather) {
	if w == nil {
		return
	}
	cp := *w
	s.mu.Lock()
	s.weather = &cp
	s.mu.Unlock()
	s.events.Emit(EventWeatherChanged, cp)
}

// AddHive appends a user-added hive with the next free id, zeroed sensors
// and a stable status. Input validation is the caller's job.
func (s *Store) AddHive(in models.NewHive, now time.Time) models.Hive {
	s.mu.Lock()
	h := models.Hive{
		ID:           NextID(s.hives),
		Name:         in.Name,
		Location:     in.Location,
		DeviceSerial: in.DeviceSerial,
		Lat:          in.Lat,
		Lng:          in.Lng,
		Status:       models.StatusStable,
		Priority:     models.PriorityStable,
		UpdatedAt:    now,
	}
	s.hives = append(models.CloneHives(s.hives), h)
	next := models.CloneHives(s.hives)
	s.mu.Unlock()

	s.events.Emit(EventHivesChanged, next)
	return h
}

// DeleteHive removes a hive, reporting whether it existed.
func (s *Store) DeleteHive(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, h := range s.hives {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]models.Hive, 0, len(s.hives)-1)
	next = append(next, s.hives[:idx]...)
	next = append(next, s.hives[idx+1:]...)
	s.hives = next
	s.mu.Unlock()

	s.events.Emit(EventHivesChanged, models.CloneHives(next))
	return true
}

// Subscribe registers fn for event and returns a func that detaches it.
// Events delivered after the detach are dropped.
func (s *Store) Subscribe(event string, fn func(args ...interface{})) func() {
	var live atomic.Bool
	live.Store(true)
	s.events.On(event, nuts.NID("sub", 10), func(args ...interface{}) {
		if live.Load() {
			fn(args...)
		}
	})
	return func() { live.Store(false) }
}

// NextID returns one more than the highest numeric id in hives, zero-padded
// to at least two digits. Non-numeric ids are ignored.
func NextID(hives []models.Hive) string {
	highest := 0
	for _, h := range hives {
		n, err := strconv.Atoi(h.ID)
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%02d", highest+1)
}
