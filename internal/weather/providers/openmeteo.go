package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danielfonkaz/WeatherAggregator/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider is the secondary provider: it fetches current weather
// for known coordinates from Open-Meteo. The weather code is left numeric;
// resolving it to text is the Normalizer's job.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchCoordinates fetches the current weather for a latitude/longitude
// pair. Open-Meteo requires no API key.
func (p *OpenMeteoProvider) FetchCoordinates(ctx context.Context, lat, lon float64) (weather.OpenMeteoObservation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.OpenMeteoObservation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.OpenMeteoObservation{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload struct {
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		CurrentWeather struct {
			Time        string   `json:"time"`
			Temperature *float64 `json:"temperature"`
			WeatherCode *int     `json:"weathercode"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.OpenMeteoObservation{}, err
	}

	return weather.OpenMeteoObservation{
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		Time:        payload.CurrentWeather.Time,
		TempC:       payload.CurrentWeather.Temperature,
		WeatherCode: payload.CurrentWeather.WeatherCode,
	}, nil
}
