// FilePath: internal/reconciler/reconciler.go
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/beemind/hub/internal/classifier"
	"github.com/beemind/hub/internal/freshness"
	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/store"
	nuts "github.com/vaudience/go-nuts"
)

// ErrStaleResult is returned when a fetch finished after a newer one for
// the same feed had already been applied, or after its context ended.
var ErrStaleResult = errors.New("stale fetch result discarded")

type Feed int

const (
	FeedHives Feed = iota
	FeedGateway
	FeedWeather
	feedCount
)

func (f Feed) String() string {
	switch f {
	case FeedHives:
		return "hives"
	case FeedGateway:
		return "gateway"
	case FeedWeather:
		return "weather"
	}
	return "unknown"
}

// HiveSource is the remote hive API.
type HiveSource interface {
	FetchHives(ctx context.Context) ([]models.Hive, error)
	FetchGateway(ctx context.Context) (models.Gateway, error)
}

// WeatherSource resolves weather for a location name.
type WeatherSource interface {
	Resolve(ctx context.Context, location string) (*models.Weather, error)
}

// State is the persisted local state the reconciler reads and writes.
type State interface {
	Location(ctx context.Context) (string, error)
	MarkConnected(ctx context.Context, at time.Time) error
}

// Reporter receives the outcome of every applied fetch.
type Reporter interface {
	RecordFetch(feed string, ok bool)
}

// Reconciler merges the remote feeds into the store. Each feed keeps the
// last good value on failure.
type Reconciler struct {
	source          HiveSource
	weather         WeatherSource
	state           State
	fresh           *freshness.Cache
	store           *store.Store
	reporter        Reporter
	defaultLocation string
	now             func() time.Time

	mu      sync.Mutex
	issued  [feedCount]uint64
	applied [feedCount]uint64
}

type Options struct {
	Source          HiveSource
	Weather         WeatherSource
	State           State
	Freshness       *freshness.Cache
	Store           *store.Store
	Reporter        Reporter
	DefaultLocation string
}

func New(opts Options) *Reconciler {
	return &Reconciler{
		source:          opts.Source,
		weather:         opts.Weather,
		state:           opts.State,
		fresh:           opts.Freshness,
		store:           opts.Store,
		reporter:        opts.Reporter,
		defaultLocation: opts.DefaultLocation,
		now:             time.Now,
	}
}

// begin hands out the next sequence token for feed.
func (r *Reconciler) begin(feed Feed) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued[feed]++
	return r.issued[feed]
}

func (r *Reconciler) superseded(feed Feed, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return token <= r.applied[feed]
}

// commit runs apply unless the context ended or a newer result for feed
// was already applied. It reports whether apply ran.
func (r *Reconciler) commit(ctx context.Context, feed Feed, token uint64, ok bool, apply func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Err() != nil || token <= r.applied[feed] {
		return false
	}
	r.applied[feed] = token
	apply()
	if r.reporter != nil {
		r.reporter.RecordFetch(feed.String(), ok)
	}
	return true
}

// ReconcileHives fetches the hive summary. A non-empty answer replaces the
// collection after freshness resolution and classification; anything else
// leaves it untouched and flags the API as disconnected.
func (r *Reconciler) ReconcileHives(ctx context.Context) error {
	token := r.begin(FeedHives)
	hives, err := r.source.FetchHives(ctx)
	now := r.now()

	if err != nil {
		if !r.commit(ctx, FeedHives, token, false, func() { r.store.SetConnected(false, now, err) }) {
			return ErrStaleResult
		}
		nuts.L.Warnf("[Reconciler] Hive fetch failed, keeping %d hives: %v", len(r.store.Hives()), err)
		return err
	}
	if ctx.Err() != nil || r.superseded(FeedHives, token) {
		return ErrStaleResult
	}

	resolved := make([]models.Hive, 0, len(hives))
	for _, h := range hives {
		reading, cached := r.fresh.Resolve(ctx, h.ID, h.Reading())
		h = h.WithReading(reading)
		h.Cached = cached
		h = classifier.Apply(h)
		if h.Status == models.StatusWarning {
			nuts.L.Infof("[Reconciler] Hive %s needs attention: %s", h.ID, classifier.Reason(classifier.FromSensor(reading)))
		}
		resolved = append(resolved, h)
	}

	applied := r.commit(ctx, FeedHives, token, true, func() {
		r.store.ReplaceHives(resolved)
		r.store.SetConnected(true, now, nil)
	})
	if !applied {
		return ErrStaleResult
	}

	if err := r.state.MarkConnected(ctx, now); err != nil {
		nuts.L.Warnf("[Reconciler] Failed to persist connectivity marker: %v", err)
	}
	return nil
}

// ReconcileGateway replaces the gateway on success and keeps it otherwise.
func (r *Reconciler) ReconcileGateway(ctx context.Context) error {
	token := r.begin(FeedGateway)
	g, err := r.source.FetchGateway(ctx)
	if err != nil {
		nuts.L.Warnf("[Reconciler] Gateway fetch failed: %v", err)
		if ctx.Err() == nil && r.reporter != nil {
			r.reporter.RecordFetch(FeedGateway.String(), false)
		}
		return err
	}
	if !r.commit(ctx, FeedGateway, token, true, func() { r.store.SetGateway(g) }) {
		return ErrStaleResult
	}
	return nil
}

// ReconcileWeather resolves weather for the configured location, falling
// back to the default location name. Failures keep the previous value.
func (r *Reconciler) ReconcileWeather(ctx context.Context) error {
	location := r.Location(ctx)
	token := r.begin(FeedWeather)
	w, err := r.weather.Resolve(ctx, location)
	if err != nil {
		nuts.L.Warnf("[Reconciler] Weather unavailable for %q: %v", location, err)
		if ctx.Err() == nil && r.reporter != nil {
			r.reporter.RecordFetch(FeedWeather.String(), false)
		}
		return err
	}
	if !r.commit(ctx, FeedWeather, token, true, func() { r.store.SetWeather(w) }) {
		return ErrStaleResult
	}
	return nil
}

// Location returns the user-configured weather location or the default.
func (r *Reconciler) Location(ctx context.Context) string {
	loc, err := r.state.Location(ctx)
	if err != nil {
		nuts.L.Warnf("[Reconciler] Failed to read configured location: %v", err)
	}
	if loc == "" {
		return r.defaultLocation
	}
	return loc
}
