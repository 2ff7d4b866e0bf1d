// FilePath: internal/weather/weather.proxy.go
package weather

import (
	"context"

	"github.com/beemind/hub/internal/models"
)

// ProxyFetcher is the hive API's weather endpoint.
type ProxyFetcher interface {
	FetchWeather(ctx context.Context, location string) (*models.Weather, error)
}

// Proxy adapts the backend-proxied weather endpoint to a Provider.
type Proxy struct {
	fetcher ProxyFetcher
}

func NewProxy(fetcher ProxyFetcher) *Proxy {
	return &Proxy{fetcher: fetcher}
}

func (p *Proxy) Name() string {
	return "backend-proxy"
}

func (p *Proxy) Fetch(ctx context.Context, location string) (*models.Weather, error) {
	return p.fetcher.FetchWeather(ctx, location)
}
