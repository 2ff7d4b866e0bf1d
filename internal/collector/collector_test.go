package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemind/hub/internal/config"
	apierrors "github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	c.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestFetchHives_TranslatesAliases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/hives-summary", r.URL.Path)
		respond(`{"hives":[
			{"hive_id":"01","name":"Linden","temperature":35.2,"humidity":"51","vibration":40,"battery":88,"weight":41.5,
			 "lat":41.3,"lon":69.2,"device_serial":"BM-0001","last_update":"2026-05-01T11:55:00Z"},
			{"id":2,"temp":39,"humidity":50,"sound":10,"battery":140,"timestamp":1777636800}
		]}`)(w, r)
	})

	hives, err := c.FetchHives(context.Background())
	require.NoError(t, err)
	require.Len(t, hives, 2)

	first := hives[0]
	assert.Equal(t, "01", first.ID)
	assert.Equal(t, "Linden", first.Name)
	assert.Equal(t, 35.2, first.Temp)
	assert.Equal(t, 51.0, first.Humidity)
	assert.Equal(t, 40.0, first.Sound)
	assert.Equal(t, 69.2, first.Lng)
	assert.Equal(t, "BM-0001", first.DeviceSerial)
	assert.Equal(t, time.Date(2026, 5, 1, 11, 55, 0, 0, time.UTC), first.UpdatedAt)

	second := hives[1]
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, "Hive 2", second.Name)
	assert.Equal(t, "Unknown", second.Location)
	assert.Equal(t, 39.0, second.Temp)
	assert.Equal(t, 100.0, second.Battery)
	assert.Equal(t, time.Unix(1777636800, 0).UTC(), second.UpdatedAt)
	assert.Equal(t, models.StatusStable, second.Status)
}

func TestFetchHives_MissingTimestampUsesNow(t *testing.T) {
	c := newTestClient(t, respond(`{"hives":[{"id":"03","temperature":30,"humidity":50,"vibration":1}]}`))

	hives, err := c.FetchHives(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.now(), hives[0].UpdatedAt)
}

func TestFetchHives_NonFiniteNumbersAreAbsent(t *testing.T) {
	c := newTestClient(t, respond(`{"hives":[
		{"id":"01","temperature":"NaN","humidity":"Inf","vibration":"-Inf","battery":" nan ","weight":"40.5"}
	]}`))

	hives, err := c.FetchHives(context.Background())
	require.NoError(t, err)
	require.Len(t, hives, 1)

	h := hives[0]
	assert.Zero(t, h.Temp)
	assert.Zero(t, h.Humidity)
	assert.Zero(t, h.Sound)
	assert.Zero(t, h.Battery)
	assert.Equal(t, 40.5, h.Weight)
	assert.Equal(t, models.StatusCritical, h.Status)

	_, err = json.Marshal(hives)
	assert.NoError(t, err)
}

func TestFetchHives_EmptyAndMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"empty array":  `{"hives":[]}`,
		"missing key":  `{"data":[]}`,
		"no ids":       `{"hives":[{"temperature":30}]}`,
		"garbage item": `{"hives":["x", 3]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, respond(body))
			_, err := c.FetchHives(context.Background())
			assert.ErrorIs(t, err, ErrEmptyPayload)
		})
	}

	c := newTestClient(t, respond(`<html>`))
	_, err := c.FetchHives(context.Background())
	assert.True(t, apierrors.IsUpstream(err))
}

func TestFetchHives_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.FetchHives(context.Background())
	require.Error(t, err)
	assert.True(t, apierrors.IsUpstream(err))
}

func TestFetchGateway(t *testing.T) {
	c := newTestClient(t, respond(`{"gateway_id":"gw-7","battery_level":64,"charging":true,"rssi":-61,
		"signal_strength":72,"connected_hives":4,"last_sync":"2026-05-01T11:59:00Z"}`))

	g, err := c.FetchGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gw-7", g.ID)
	assert.Equal(t, 64.0, g.BatteryLevel)
	assert.True(t, g.IsCharging)
	assert.Equal(t, 72.0, g.SignalStrength)
	assert.Equal(t, models.GatewayOnline, g.Status)
	assert.Equal(t, 4, g.ConnectedHives)
	require.NotNil(t, g.LastSync)
	assert.Equal(t, 11, g.LastSync.Hour())
}

func TestFetchGateway_DefaultsAndOffline(t *testing.T) {
	c := newTestClient(t, respond(`{"status":"offline"}`))

	g, err := c.FetchGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OfflineGateway().ID, g.ID)
	assert.Equal(t, models.GatewayOffline, g.Status)
	assert.Nil(t, g.LastSync)
}

func TestFetchChart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/hive-chart/01", r.URL.Path)
		respond(`{"data":[
			{"time":"14:00","temperature":34.5,"humidity":55,"vibration":120,"battery":80},
			{"timestamp":"2026-05-01T15:00:00Z","temp":35,"humidity":54,"sound":130,"battery":79}
		]}`)(w, r)
	})

	points, err := c.FetchChart(context.Background(), "01")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "14:00", points[0].Label)
	assert.True(t, points[0].Time.IsZero())
	assert.Equal(t, 34.5, points[0].Temp)
	assert.Equal(t, 120.0, points[0].Sound)
	assert.Equal(t, 15, points[1].Time.Hour())
	assert.Equal(t, 130.0, points[1].Sound)
}

func TestFetchWeather(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		require.Equal(t, "Samarkand", r.URL.Query().Get("location"))
		respond(`{"temp":21,"condition":"Clear sky","icon":"sun","forecast":[{},{},{},{}]}`)(w, r)
	})

	weather, err := c.FetchWeather(context.Background(), "Samarkand")
	require.NoError(t, err)
	assert.Equal(t, "Samarkand", weather.Location)
	assert.Len(t, weather.Forecast, 3)
}
