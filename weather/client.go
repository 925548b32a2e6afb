// Package weather fetches live forecasts from Open-Meteo and degrades to a
// deterministic mock snapshot when the service is unreachable, so every
// caller always has something to show.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mayanksahani2004/kisan-saathi-ai/config"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/resilience"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1"
	forecastDays   = 7

	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"
	dailyFields   = "temperature_2m_max,temperature_2m_min,weather_code,precipitation_probability_max,precipitation_sum"
)

// Client talks to the Open-Meteo forecast API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient builds an Open-Meteo client. baseURL may be empty for the
// public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.GetLogger().WithComponent("weather"),
	}
}

// Fetch retrieves the current conditions and 7-day forecast for a location.
// Transient failures are retried twice with backoff before giving up.
func (c *Client) Fetch(ctx context.Context, loc config.Location) (*types.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	q.Set("current", currentFields)
	q.Set("daily", dailyFields)
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(forecastDays))
	endpoint := c.baseURL + "/forecast?" + q.Encode()

	var snapshot *types.WeatherSnapshot
	err := resilience.RetryWithBackoff(ctx, 3, 500*time.Millisecond, func() error {
		snap, fetchErr := c.fetchOnce(ctx, endpoint)
		if fetchErr != nil {
			return fetchErr
		}
		snapshot = snap
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching forecast for %s: %w", loc.Name, err)
	}
	snapshot.LocationName = loc.Name
	return snapshot, nil
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (*types.WeatherSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
	}
	var snapshot types.WeatherSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	return &snapshot, nil
}
