package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/danielfonkaz/WeatherAggregator/internal/store"
	"github.com/danielfonkaz/WeatherAggregator/internal/weather"
)

type stubPrimary struct {
	obs weather.WeatherAPIObservation
	err error
}

func (s stubPrimary) Name() string { return "stub-primary" }

func (s stubPrimary) FetchCity(_ context.Context, _ string) (weather.WeatherAPIObservation, error) {
	return s.obs, s.err
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func newTestApp(t *testing.T, primary weather.PrimaryProvider) *fiber.App {
	t.Helper()

	app := fiber.New()

	db, err := store.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := weather.NewService(primary, nil, weather.NewNormalizer(nil))
	RegisterRoutes(app, svc, db)

	return app
}

func doRequest(t *testing.T, app *fiber.App, target string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var body map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("failed to decode body %q: %v", data, err)
		}
	}
	return resp, body
}

// TestCurrentWeatherMissingCity verifies the required-parameter check.
func TestCurrentWeatherMissingCity(t *testing.T) {
	app := newTestApp(t, stubPrimary{})

	resp, body := doRequest(t, app, "/api/v1/weather/current")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "Bad Request" {
		t.Errorf("error = %v, want Bad Request", body["error"])
	}
}

func TestCurrentWeatherCityNotFound(t *testing.T) {
	app := newTestApp(t, stubPrimary{err: weather.ErrCityNotFound})

	resp, body := doRequest(t, app, "/api/v1/weather/current?city=Atlantis")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	if body["error"] != "Not found" {
		t.Errorf("error = %v, want Not found", body["error"])
	}
	// First visit from this IP: no previous access.
	if body["last_access"] != "N / A" {
		t.Errorf("last_access = %v, want N / A", body["last_access"])
	}
}

func TestCurrentWeatherProviderFailure(t *testing.T) {
	app := newTestApp(t, stubPrimary{err: errors.New("connection refused")})

	resp, body := doRequest(t, app, "/api/v1/weather/current?city=London")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
	if body["error"] != "Service Unavailable" {
		t.Errorf("error = %v, want Service Unavailable", body["error"])
	}
}

// TestCurrentWeatherAllStale covers the distinct no-usable-data outcome: the
// provider responds but everything is filtered out, which is still a 503.
func TestCurrentWeatherAllStale(t *testing.T) {
	stale := weather.WeatherAPIObservation{
		Latitude:      f64(51.52),
		Longitude:     f64(-0.11),
		UpdatedEpoch:  i64(time.Now().Add(-weather.StaleCutoff - time.Hour).Unix()),
		TempC:         f64(10.0),
		ConditionText: "Sunny",
	}
	app := newTestApp(t, stubPrimary{obs: stale})

	resp, _ := doRequest(t, app, "/api/v1/weather/current?city=London")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestCurrentWeatherSuccess(t *testing.T) {
	fresh := weather.WeatherAPIObservation{
		CityName:      "London",
		Latitude:      f64(51.52),
		Longitude:     f64(-0.11),
		UpdatedEpoch:  i64(time.Now().Add(-time.Minute).Unix()),
		TempC:         f64(11.5),
		ConditionText: "Partly cloudy",
	}
	app := newTestApp(t, stubPrimary{obs: fresh})

	resp, body := doRequest(t, app, "/api/v1/weather/current?city=London")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if body["city"] != "London" {
		t.Errorf("city = %v, want London", body["city"])
	}

	report, ok := body["weather"].(map[string]any)
	if !ok {
		t.Fatalf("weather = %v, want an object", body["weather"])
	}
	if report["temp_c"] != "11.50" {
		t.Errorf("temp_c = %v, want 11.50", report["temp_c"])
	}
	if report["weather_condition"] != "Partially Cloudy" {
		t.Errorf("weather_condition = %v, want Partially Cloudy", report["weather_condition"])
	}
}

// TestCurrentWeatherAccessHistory checks the audit trail across two
// requests from the same client.
func TestCurrentWeatherAccessHistory(t *testing.T) {
	fresh := weather.WeatherAPIObservation{
		Latitude:      f64(51.52),
		Longitude:     f64(-0.11),
		UpdatedEpoch:  i64(time.Now().Add(-time.Minute).Unix()),
		TempC:         f64(11.5),
		ConditionText: "Sunny",
	}
	app := newTestApp(t, stubPrimary{obs: fresh})

	_, first := doRequest(t, app, "/api/v1/weather/current?city=London")
	if cities, ok := first["recent_cities"].([]any); ok && len(cities) != 0 {
		t.Errorf("recent_cities = %v, want empty on first visit", cities)
	}
	if first["last_access"] != "N / A" {
		t.Errorf("last_access = %v, want N / A on first visit", first["last_access"])
	}

	_, second := doRequest(t, app, "/api/v1/weather/current?city=Paris")
	cities, ok := second["recent_cities"].([]any)
	if !ok || len(cities) != 1 || cities[0] != "London" {
		t.Errorf("recent_cities = %v, want [London]", second["recent_cities"])
	}
	if second["last_access"] == "N / A" {
		t.Error("last_access should be set on repeat visit")
	}
}
