package weather

import (
	"context"
	"errors"
)

var (
	// ErrCityNotFound is returned when the primary provider cannot resolve
	// the requested city name.
	ErrCityNotFound = errors.New("city not found")

	// ErrNoFreshData is returned when every observation was discarded by
	// the validity and staleness filters.
	ErrNoFreshData = errors.New("no usable weather data after filtering")
)

// PrimaryProvider resolves a city name to a raw observation. Its failure is
// fatal for the request.
type PrimaryProvider interface {
	Name() string
	FetchCity(ctx context.Context, city string) (WeatherAPIObservation, error)
}

// SecondaryProvider fetches a raw observation for known coordinates. It is
// consulted best-effort; failures are logged and swallowed.
type SecondaryProvider interface {
	Name() string
	FetchCoordinates(ctx context.Context, lat, lon float64) (OpenMeteoObservation, error)
}
