package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticket-tracker/ticket-tracker/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.WeatherConfig{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	})
}

func TestLookup_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Berlin",
			"weather": [{"description": "scattered clouds"}],
			"main": {"temp": 18.4, "humidity": 62},
			"wind": {"speed": 4.1}
		}`))
	})

	report, err := client.Lookup(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", report.City)
	assert.Equal(t, 18.4, report.Temperature)
	assert.Equal(t, "scattered clouds", report.Weather)
	assert.Equal(t, 62, report.Humidity)
	assert.Equal(t, 4.1, report.WindSpeed)
}

func TestLookup_CityNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestLookup_BadAPIKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Lookup(context.Background(), "Berlin")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLookup_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	})

	_, err := client.Lookup(context.Background(), "Berlin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestLookup_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := client.Lookup(context.Background(), "Berlin")
	assert.Error(t, err)
}

func TestLookup_NoWeatherEntries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Berlin", "weather": [], "main": {"temp": 10, "humidity": 50}, "wind": {"speed": 2}}`))
	})

	report, err := client.Lookup(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Empty(t, report.Weather)
}

func TestLookup_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "Berlin")
	assert.Error(t, err)
}
