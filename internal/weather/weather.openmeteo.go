// FilePath: internal/weather/weather.openmeteo.go
package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/models"
	"github.com/go-resty/resty/v2"
)

const forecastDays = 3

// Place is a geocoding match.
type Place struct {
	Lat     float64
	Lon     float64
	Name    string
	Admin   string
	Country string
}

// OpenMeteo geocodes a place name and fetches its forecast.
type OpenMeteo struct {
	geocoding *resty.Client
	forecast  *resty.Client
}

func NewOpenMeteo(geocodingURL, forecastURL string, timeout time.Duration) *OpenMeteo {
	return &OpenMeteo{
		geocoding: resty.New().SetBaseURL(geocodingURL).SetTimeout(timeout),
		forecast:  resty.New().SetBaseURL(forecastURL).SetTimeout(timeout),
	}
}

func (o *OpenMeteo) Name() string {
	return "open-meteo"
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Admin1    string  `json:"admin1"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature  float64 `json:"temperature_2m"`
		Humidity     float64 `json:"relative_humidity_2m"`
		ApparentTemp float64 `json:"apparent_temperature"`
		WeatherCode  int     `json:"weather_code"`
		WindSpeed10m float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

// Geocode resolves a location name to coordinates.
func (o *OpenMeteo) Geocode(ctx context.Context, name string) (Place, error) {
	var out geocodeResponse
	resp, err := o.geocoding.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     name,
			"count":    "1",
			"language": "en",
			"format":   "json",
		}).
		SetResult(&out).
		Get("/v1/search")
	if err != nil {
		return Place{}, apierrors.NewUpstreamError("geocoding request failed", err)
	}
	if resp.IsError() {
		return Place{}, apierrors.NewUpstreamError(fmt.Sprintf("geocoding returned %d", resp.StatusCode()), nil)
	}
	if len(out.Results) == 0 {
		return Place{}, apierrors.NewNotFoundError("unknown location "+name, nil)
	}
	r := out.Results[0]
	return Place{Lat: r.Latitude, Lon: r.Longitude, Name: r.Name, Admin: r.Admin1, Country: r.Country}, nil
}

// Forecast fetches current conditions and the next days for a place.
func (o *OpenMeteo) Forecast(ctx context.Context, place Place) (*models.Weather, error) {
	var out forecastResponse
	resp, err := o.forecast.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":      fmt.Sprintf("%.4f", place.Lat),
			"longitude":     fmt.Sprintf("%.4f", place.Lon),
			"current":       "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m",
			"daily":         "weather_code,temperature_2m_max",
			"timezone":      "auto",
			"forecast_days": fmt.Sprint(forecastDays + 1),
		}).
		SetResult(&out).
		Get("/v1/forecast")
	if err != nil {
		return nil, apierrors.NewUpstreamError("forecast request failed", err)
	}
	if resp.IsError() {
		return nil, apierrors.NewUpstreamError(fmt.Sprintf("forecast returned %d", resp.StatusCode()), nil)
	}

	current := ConditionFor(out.Current.WeatherCode)
	w := &models.Weather{
		Location:  place.Label(),
		Temp:      out.Current.Temperature,
		FeelsLike: out.Current.ApparentTemp,
		Condition: current.Text,
		Icon:      current.Icon,
		Humidity:  out.Current.Humidity,
		WindSpeed: out.Current.WindSpeed10m,
		Forecast:  make([]models.ForecastDay, 0, forecastDays),
	}

	// Index 0 is today, already covered by the current conditions.
	for i := 1; i < len(out.Daily.Time) && len(w.Forecast) < forecastDays; i++ {
		if i >= len(out.Daily.WeatherCode) || i >= len(out.Daily.TempMax) {
			break
		}
		c := ConditionFor(out.Daily.WeatherCode[i])
		w.Forecast = append(w.Forecast, models.ForecastDay{
			Day:       dayName(out.Daily.Time[i]),
			Temp:      out.Daily.TempMax[i],
			Condition: c.Text,
			Icon:      c.Icon,
		})
	}
	return w, nil
}

// Fetch geocodes location and returns its forecast.
func (o *OpenMeteo) Fetch(ctx context.Context, location string) (*models.Weather, error) {
	place, err := o.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}
	return o.Forecast(ctx, place)
}

// Label renders the place for display, e.g. "Tashkent, Uzbekistan".
func (p Place) Label() string {
	parts := []string{p.Name}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, ", ")
}

func dayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon")
}
