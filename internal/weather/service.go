package weather

import (
	"context"
	"fmt"
	"log"
)

// Service orchestrates the fetch → normalize → aggregate pipeline for a
// single city request. The primary provider is required; the secondary is
// consulted only when the primary yielded coordinates, and its failure
// degrades to a single-source report.
type Service struct {
	primary    PrimaryProvider
	secondary  SecondaryProvider
	normalizer *Normalizer
}

// NewService creates a new Service. The secondary provider may be nil.
func NewService(primary PrimaryProvider, secondary SecondaryProvider, normalizer *Normalizer) *Service {
	return &Service{
		primary:    primary,
		secondary:  secondary,
		normalizer: normalizer,
	}
}

// CityWeather fetches, normalizes and aggregates current weather for the
// named city.
//
// Errors: ErrCityNotFound when the primary provider does not know the
// city; ErrNoFreshData when every observation was filtered out; any other
// error is a primary-provider request failure.
func (s *Service) CityWeather(ctx context.Context, city string) (Report, error) {
	primaryObs, err := s.primary.FetchCity(ctx, city)
	if err != nil {
		return Report{}, fmt.Errorf("primary provider %s: %w", s.primary.Name(), err)
	}

	raw := []ProviderObservation{primaryObs}

	if s.secondary != nil && primaryObs.Latitude != nil && primaryObs.Longitude != nil {
		secondaryObs, err := s.secondary.FetchCoordinates(ctx, *primaryObs.Latitude, *primaryObs.Longitude)
		if err != nil {
			// Best-effort source; continue with the primary alone.
			log.Printf("WARN: secondary provider %s fetch failed for %q: %v", s.secondary.Name(), city, err)
		} else {
			raw = append(raw, secondaryObs)
		}
	}

	observations := make([]Observation, 0, len(raw))
	for _, r := range raw {
		obs, err := s.normalizer.Normalize(r)
		if err != nil {
			return Report{}, err
		}
		observations = append(observations, obs)
	}

	report, ok := Aggregate(observations)
	if !ok {
		return Report{}, ErrNoFreshData
	}
	return report, nil
}
