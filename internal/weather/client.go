// Package weather implements a client for the upstream weather provider
// (OpenWeather-compatible API). The tracker exposes a single read-through
// endpoint so field technicians can check conditions at a site before heading
// out; nothing is cached or persisted.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ticket-tracker/ticket-tracker/internal/config"
	"github.com/ticket-tracker/ticket-tracker/internal/telemetry"
)

// ErrCityNotFound is returned when the upstream provider does not know the city.
var ErrCityNotFound = errors.New("city not found")

// ErrUnauthorized is returned when the upstream rejects the configured API key.
var ErrUnauthorized = errors.New("weather provider rejected api key")

// Client calls the upstream weather provider.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a weather client from application configuration.
func NewClient(cfg config.WeatherConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Report is the condensed weather summary returned to API clients.
type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Weather     string  `json:"weather"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// upstreamResponse mirrors the fields we use from the provider's payload.
type upstreamResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Lookup fetches current conditions for a city. Temperatures are requested in
// metric units.
func (c *Client) Lookup(ctx context.Context, city string) (*Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to perform weather request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		telemetry.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, ErrCityNotFound
	case http.StatusUnauthorized:
		telemetry.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, ErrUnauthorized
	default:
		telemetry.WeatherLookupsTotal.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var upstream upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		telemetry.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	report := &Report{
		City:        upstream.Name,
		Temperature: upstream.Main.Temp,
		Humidity:    upstream.Main.Humidity,
		WindSpeed:   upstream.Wind.Speed,
	}
	if len(upstream.Weather) > 0 {
		report.Weather = upstream.Weather[0].Description
	}

	telemetry.WeatherLookupsTotal.WithLabelValues("ok").Inc()
	return report, nil
}
