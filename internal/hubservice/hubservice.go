package hubservice

import (
	"context"
	"sync"
	"time"

	"github.com/beemind/hub/internal/cleanup"
	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/freshness"
	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/monitoring"
	"github.com/beemind/hub/internal/reconciler"
	"github.com/beemind/hub/internal/repository"
	"github.com/beemind/hub/internal/scheduler"
	"github.com/beemind/hub/internal/store"
	nuts "github.com/vaudience/go-nuts"
)

// HiveAPI is the remote hive API as the hub consumes it.
type HiveAPI interface {
	reconciler.HiveSource
	FetchChart(ctx context.Context, hiveID string) ([]models.ChartPoint, error)
}

// HubService contains the view model store and everything that feeds it
type HubService struct {
	Store      *store.Store
	State      *repository.LocalState
	Freshness  *freshness.Cache
	Reconciler *reconciler.Reconciler
	Scheduler  *scheduler.Scheduler
	Cleanup    *cleanup.CleanupService
	Monitoring *monitoring.Service

	api HiveAPI
	now func() time.Time

	// addMu serializes add-hive validation with the insert.
	addMu sync.Mutex
}

// New wires a HubService. The store starts from the locally added hives or
// the seed set; nothing is fetched until Start.
func New(ctx context.Context, cfg *config.Config, kv repository.KVStore, api HiveAPI, weather reconciler.WeatherSource) *HubService {
	state := repository.NewLocalState(kv, cfg.Storage.KeyPrefix)
	fresh := freshness.New(state)
	mon := monitoring.NewService(cfg.Monitoring.EventRetention)
	st := store.New(reconciler.InitialHives(ctx, state, time.Now()))

	rec := reconciler.New(reconciler.Options{
		Source:          api,
		Weather:         weather,
		State:           state,
		Freshness:       fresh,
		Store:           st,
		Reporter:        mon,
		DefaultLocation: cfg.Weather.DefaultLocation,
	})

	svc := &HubService{
		Store:      st,
		State:      state,
		Freshness:  fresh,
		Reconciler: rec,
		Scheduler:  scheduler.New(rec, cfg.Polling.HiveInterval, cfg.Polling.WeatherInterval),
		Cleanup:    cleanup.New(st, fresh, state),
		Monitoring: mon,
		api:        api,
		now:        time.Now,
	}
	return svc
}

// Validate checks if all required collaborators are initialized
func (s *HubService) Validate() error {
	if s.Store == nil {
		return ErrMissingComponent("store")
	}
	if s.State == nil {
		return ErrMissingComponent("state")
	}
	if s.Reconciler == nil {
		return ErrMissingComponent("reconciler")
	}
	if s.Scheduler == nil {
		return ErrMissingComponent("scheduler")
	}
	if s.api == nil {
		return ErrMissingComponent("hive api")
	}
	return nil
}

func ErrMissingComponent(name string) error {
	return errors.NewInternalError("missing component: "+name, nil)
}

// Start begins polling.
func (s *HubService) Start(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return s.Scheduler.Start(ctx)
}

// Stop halts polling and closes local state.
func (s *HubService) Stop() {
	s.Scheduler.Stop()
	if err := s.State.Close(); err != nil {
		nuts.L.Warnf("[HubService] Failed to close local state: %v", err)
	}
}

// Dashboard returns the full view model.
func (s *HubService) Dashboard() store.ViewModel {
	return s.Store.Snapshot(s.now())
}

// Refresh triggers an immediate hive and gateway fetch.
func (s *HubService) Refresh() error {
	if err := s.Scheduler.Refresh(); err != nil {
		return errors.NewUnavailableError("polling is not running", err)
	}
	return nil
}
