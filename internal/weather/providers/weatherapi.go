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

// weatherAPICityNotFoundCode is WeatherAPI's application-level error code
// for an unresolvable location query.
const weatherAPICityNotFoundCode = 1006

// WeatherAPIProvider is the primary provider: it resolves a city name to a
// raw observation via WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
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

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// FetchCity fetches the current weather for a city name. An unknown city
// yields weather.ErrCityNotFound; other non-success responses and network
// failures are request errors.
func (p *WeatherAPIProvider) FetchCity(ctx context.Context, city string) (weather.WeatherAPIObservation, error) {
	if p.apiKey == "" {
		return weather.WeatherAPIObservation{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", city)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.WeatherAPIObservation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.WeatherAPIObservation{}, classifyWeatherAPIError(resp)
	}

	var payload struct {
		Location struct {
			Name    string   `json:"name"`
			Country string   `json:"country"`
			Lat     *float64 `json:"lat"`
			Lon     *float64 `json:"lon"`
		} `json:"location"`
		Current struct {
			LastUpdatedEpoch *int64   `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			Condition        struct {
				Text string `json:"text"`
				Code *int   `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherAPIObservation{}, err
	}

	return weather.WeatherAPIObservation{
		CityName:      payload.Location.Name,
		CountryName:   payload.Location.Country,
		Latitude:      payload.Location.Lat,
		Longitude:     payload.Location.Lon,
		UpdatedEpoch:  payload.Current.LastUpdatedEpoch,
		TempC:         payload.Current.TempC,
		ConditionText: payload.Current.Condition.Text,
		ConditionCode: payload.Current.Condition.Code,
	}, nil
}

// classifyWeatherAPIError distinguishes "city not found" (application error
// code 1006 in the response body) from generic request failures.
func classifyWeatherAPIError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil &&
		body.Error.Code == weatherAPICityNotFoundCode {
		return weather.ErrCityNotFound
	}

	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}
