// FilePath: internal/collector/collector.go
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/beemind/hub/internal/config"
	apierrors "github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/models"
	"github.com/go-resty/resty/v2"
	nuts "github.com/vaudience/go-nuts"
)

// ErrEmptyPayload is returned when the hive summary carries no usable hive.
var ErrEmptyPayload = errors.New("empty hive payload")

// Client talks to the remote hive API
type Client struct {
	http *resty.Client
	now  func() time.Time
}

// New builds a client for the configured API. There is no retry policy: a
// failed poll is retried by the next tick.
func New(cfg config.APIConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		now:  time.Now,
	}
}

type summaryPayload struct {
	Hives []json.RawMessage `json:"hives"`
}

type chartPayload struct {
	Data []json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, apierrors.NewUpstreamError("request to "+path+" failed", err)
	}
	if resp.IsError() {
		return nil, apierrors.NewUpstreamError(
			fmt.Sprintf("%s returned %d", path, resp.StatusCode()), nil)
	}
	return resp.Body(), nil
}

// FetchHives returns the translated hive summary. The hives are not yet
// classified nor checked against the freshness cache.
func (c *Client) FetchHives(ctx context.Context) ([]models.Hive, error) {
	body, err := c.get(ctx, "/hives-summary", nil)
	if err != nil {
		return nil, err
	}

	var payload summaryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apierrors.NewUpstreamError("malformed hive summary", err)
	}

	now := c.now()
	hives := make([]models.Hive, 0, len(payload.Hives))
	for _, rec := range decodeRecords(payload.Hives) {
		h, ok := translateHive(rec, now)
		if !ok {
			nuts.L.Warnf("[Collector] Skipping hive record without id")
			continue
		}
		hives = append(hives, h)
	}
	if len(hives) == 0 {
		return nil, ErrEmptyPayload
	}
	return hives, nil
}

// FetchGateway returns the current gateway status.
func (c *Client) FetchGateway(ctx context.Context) (models.Gateway, error) {
	body, err := c.get(ctx, "/gateway-status", nil)
	if err != nil {
		return models.Gateway{}, err
	}

	var rec record
	if err := json.Unmarshal(body, &rec); err != nil || rec == nil {
		return models.Gateway{}, apierrors.NewUpstreamError("malformed gateway status", err)
	}
	return translateGateway(rec), nil
}

// FetchChart returns the history of one hive.
func (c *Client) FetchChart(ctx context.Context, hiveID string) ([]models.ChartPoint, error) {
	body, err := c.get(ctx, "/hive-chart/"+url.PathEscape(hiveID), nil)
	if err != nil {
		return nil, err
	}

	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apierrors.NewUpstreamError("malformed hive chart", err)
	}

	points := make([]models.ChartPoint, 0, len(payload.Data))
	for _, rec := range decodeRecords(payload.Data) {
		points = append(points, translateChartPoint(rec))
	}
	return points, nil
}

// FetchWeather asks the backend's weather proxy for location.
func (c *Client) FetchWeather(ctx context.Context, location string) (*models.Weather, error) {
	body, err := c.get(ctx, "/weather", map[string]string{"location": location})
	if err != nil {
		return nil, err
	}

	var w models.Weather
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, apierrors.NewUpstreamError("malformed weather payload", err)
	}
	if w.Condition == "" && w.Location == "" {
		return nil, apierrors.NewUpstreamError("empty weather payload", nil)
	}
	if len(w.Forecast) > 3 {
		w.Forecast = w.Forecast[:3]
	}
	if w.Location == "" {
		w.Location = location
	}
	return &w, nil
}
