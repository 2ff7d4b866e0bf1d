package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemind/hub/internal/config"
	"github.com/beemind/hub/internal/models"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, AllowedOrigins: []string{"*"}, ShutdownTimeout: time.Second},
		API:    config.APIConfig{BaseURL: apiURL, Timeout: time.Second},
		Weather: config.WeatherConfig{
			GeocodingURL:    apiURL,
			ForecastURL:     apiURL,
			DefaultLocation: "Tashkent",
			CacheTTL:        time.Minute,
			Timeout:         time.Second,
		},
		Polling: config.PollingConfig{HiveInterval: time.Hour, WeatherInterval: time.Hour},
		Storage: config.StorageConfig{Backend: config.StorageMemory, KeyPrefix: "test:"},
	}
}

func TestHandlerMiddleware(t *testing.T) {
	s := New(testConfig("http://127.0.0.1:1"))
	h := s.handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInitializeHubServiceAgainstRemote(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/hives-summary":
			_, _ = w.Write([]byte(`{"hives":[{"hive_id":"21","temperature":35.2,"humidity":52,"vibration":300,"battery":81}]}`))
		case "/gateway-status":
			_, _ = w.Write([]byte(`{"battery_level":66,"signal_strength":70,"connected_hives":1}`))
		case "/v1/search":
			_, _ = w.Write([]byte(`{"results":[{"latitude":41.26,"longitude":69.21,"name":"Tashkent","country":"Uzbekistan"}]}`))
		case "/v1/forecast":
			_, _ = w.Write([]byte(`{"current":{"temperature_2m":23,"weather_code":1},"daily":{"time":[],"weather_code":[],"temperature_2m_max":[]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer remote.Close()

	cfg := testConfig(remote.URL)
	ctx := context.Background()
	svc, err := initializeHubService(ctx, cfg)
	require.NoError(t, err)

	s := New(cfg)
	s.hubservice = svc
	s.setupCleanupHandlers()

	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.Eventually(t, func() bool {
		vm := svc.Dashboard()
		return vm.APIConnected && vm.Weather != nil && vm.Gateway.Status == models.GatewayOnline
	}, 2*time.Second, 10*time.Millisecond)

	vm := svc.Dashboard()
	require.Len(t, vm.Hives, 1)
	assert.Equal(t, "21", vm.Hives[0].ID)
	assert.Equal(t, "Tashkent, Uzbekistan", vm.Weather.Location)

	require.NoError(t, svc.DeleteHive(ctx, "21"))
	require.Eventually(t, func() bool {
		m, _ := svc.Monitoring.GetEventMetrics("hive_deletion", time.Minute)
		return m["count"] == 1
	}, time.Second, 10*time.Millisecond)
}
