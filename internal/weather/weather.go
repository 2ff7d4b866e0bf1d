// FilePath: internal/weather/weather.go
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beemind/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ErrNoProvider is returned when every provider failed.
var ErrNoProvider = errors.New("no weather provider succeeded")

// Provider is one source of current weather for a named location.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, location string) (*models.Weather, error)
}

// Cache stores resolved weather per location for a limited time.
type Cache interface {
	CachedWeather(ctx context.Context, location string) (*models.Weather, error)
	CacheWeather(ctx context.Context, location string, w *models.Weather, ttl time.Duration) error
}

// Resolver tries its providers in order and caches the first answer.
type Resolver struct {
	providers []Provider
	cache     Cache
	ttl       time.Duration
}

func NewResolver(cache Cache, ttl time.Duration, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		cache:     cache,
		ttl:       ttl,
	}
}

// Resolve returns the weather for location. A cached value younger than
// the TTL is returned without calling any provider.
func (r *Resolver) Resolve(ctx context.Context, location string) (*models.Weather, error) {
	key := strings.ToLower(strings.TrimSpace(location))

	if r.cache != nil {
		cached, err := r.cache.CachedWeather(ctx, key)
		if err != nil {
			nuts.L.Warnf("[Weather] Cache read failed for %q: %v", location, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var errs []error
	for _, p := range r.providers {
		w, err := p.Fetch(ctx, location)
		if err != nil {
			nuts.L.Warnf("[Weather] Provider %s failed for %q: %v", p.Name(), location, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if r.cache != nil {
			if err := r.cache.CacheWeather(ctx, key, w, r.ttl); err != nil {
				nuts.L.Warnf("[Weather] Cache write failed for %q: %v", location, err)
			}
		}
		return w, nil
	}
	return nil, errors.Join(append([]error{ErrNoProvider}, errs...)...)
}
