package weather

// Observation is the normalized view of a single provider's current-weather
// reading. Latitude, longitude, timestamp and temperature are optional:
// a nil field means the provider did not report it. Conditions is never
// empty after normalization; an unresolved condition is represented as
// [ConditionUnrecognized].
type Observation struct {
	Latitude     *float64
	Longitude    *float64
	UpdatedEpoch *int64 // Unix seconds, UTC
	TempC        *float64
	Conditions   []Condition
}

// NewObservation builds an Observation, wrapping the conditions into a
// non-empty list. Callers passing no condition get [ConditionUnrecognized].
func NewObservation(lat, lon *float64, epoch *int64, tempC *float64, conditions ...Condition) Observation {
	if len(conditions) == 0 {
		conditions = []Condition{ConditionUnrecognized}
	}
	return Observation{
		Latitude:     lat,
		Longitude:    lon,
		UpdatedEpoch: epoch,
		TempC:        tempC,
		Conditions:   conditions,
	}
}

// ProviderObservation is the raw reading returned by a provider client
// before normalization. The interface is sealed: the Normalizer consumes
// the concrete variants by exhaustive type switch.
type ProviderObservation interface {
	providerObservation()
}

// WeatherAPIObservation is the raw current-weather payload from
// WeatherAPI.com, the primary provider. The condition arrives as free text.
type WeatherAPIObservation struct {
	CityName      string
	CountryName   string
	Latitude      *float64
	Longitude     *float64
	UpdatedEpoch  *int64
	TempC         *float64
	ConditionText string
	ConditionCode *int
}

func (WeatherAPIObservation) providerObservation() {}

// OpenMeteoObservation is the raw current-weather payload from Open-Meteo,
// the secondary provider. The condition arrives as a numeric WMO code and
// the timestamp as a zone-less local time string.
type OpenMeteoObservation struct {
	Latitude    *float64
	Longitude   *float64
	Time        string // "2006-01-02T15:04", interpreted as UTC
	TempC       *float64
	WeatherCode *int
}

func (OpenMeteoObservation) providerObservation() {}
