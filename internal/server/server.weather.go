package server

import (
	"github.com/beemind/hub/internal/collector"
	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/repository"
	"github.com/beemind/hub/internal/weather"
)

// newWeatherResolver chains Open-Meteo with the hive API's weather proxy,
// caching answers in local state.
func newWeatherResolver(cfg *config.Config, kv repository.KVStore, client *collector.Client) *weather.Resolver {
	cache := repository.NewLocalState(kv, cfg.Storage.KeyPrefix)
	return weather.NewResolver(cache, cfg.Weather.CacheTTL,
		weather.NewOpenMeteo(cfg.Weather.GeocodingURL, cfg.Weather.ForecastURL, cfg.Weather.Timeout),
		weather.NewProxy(client),
	)
}
