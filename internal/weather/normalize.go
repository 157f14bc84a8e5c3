package weather

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrUnsupportedObservation indicates the Normalizer was handed a raw
// observation type it does not recognize. This is an integration bug, not a
// runtime data error; callers should treat it as fatal rather than retry.
var ErrUnsupportedObservation = errors.New("unsupported provider observation type")

// openMeteoTimeLayout is the zone-less local time format in Open-Meteo
// responses; values are interpreted as UTC.
const openMeteoTimeLayout = "2006-01-02T15:04"

// Normalizer converts raw provider observations into the internal
// Observation schema, resolving numeric weather codes through a codebook.
type Normalizer struct {
	codebook Codebook
}

// NewNormalizer creates a Normalizer backed by the given codebook. A nil or
// empty codebook is valid: unresolved codes fall through to Unrecognized.
func NewNormalizer(codebook Codebook) *Normalizer {
	return &Normalizer{codebook: codebook}
}

// Normalize maps a raw provider observation onto an Observation. Condition
// text, when present, is classified; a missing or unresolvable condition
// yields ConditionUnrecognized. An unknown observation type returns
// ErrUnsupportedObservation.
func (n *Normalizer) Normalize(raw ProviderObservation) (Observation, error) {
	var (
		lat, lon      *float64
		epoch         *int64
		tempC         *float64
		conditionText string
		haveText      bool
	)

	switch obs := raw.(type) {
	case WeatherAPIObservation:
		lat, lon = obs.Latitude, obs.Longitude
		epoch = obs.UpdatedEpoch
		tempC = obs.TempC
		conditionText = obs.ConditionText
		haveText = obs.ConditionText != ""

	case OpenMeteoObservation:
		lat, lon = obs.Latitude, obs.Longitude
		tempC = obs.TempC
		if obs.Time != "" {
			ts, err := time.ParseInLocation(openMeteoTimeLayout, obs.Time, time.UTC)
			if err != nil {
				log.Printf("WARN: unparseable openmeteo timestamp %q: %v", obs.Time, err)
			} else {
				unix := ts.Unix()
				epoch = &unix
			}
		}
		if obs.WeatherCode != nil {
			text, ok := n.codebook.Lookup(*obs.WeatherCode)
			if ok {
				conditionText = text
				haveText = true
			} else {
				log.Printf("WARN: openmeteo weather code %d not in codebook", *obs.WeatherCode)
			}
		}

	default:
		return Observation{}, fmt.Errorf("%w: %T", ErrUnsupportedObservation, raw)
	}

	condition := ConditionUnrecognized
	if haveText {
		condition = Classify(conditionText)
	}

	return NewObservation(lat, lon, epoch, tempC, condition), nil
}
