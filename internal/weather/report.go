package weather

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// notAvailable is the sentinel rendered for missing values in the
// consumer-facing view.
const notAvailable = "N / A"

// isoLayout renders UTC timestamps with an explicit +00:00 offset.
const isoLayout = "2006-01-02T15:04:05-07:00"

// Report is the aggregated current-weather record for a city, fused from
// one or more observations. It has the same shape as Observation but the
// condition list is a deduplicated set contributed by all fresh sources.
type Report struct {
	Latitude     *float64
	Longitude    *float64
	UpdatedEpoch *int64
	TempC        *float64
	Conditions   []Condition
}

// MarshalJSON renders the consumer-ready view: ISO-8601 UTC timestamp,
// temperature to two decimals, condition labels joined with " or ".
// Missing temperature or conditions render as "N / A".
func (r Report) MarshalJSON() ([]byte, error) {
	view := struct {
		Latitude         *float64 `json:"latitude"`
		Longitude        *float64 `json:"longitude"`
		LastUpdate       string   `json:"last_update"`
		TempC            string   `json:"temp_c"`
		WeatherCondition string   `json:"weather_condition"`
	}{
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		LastUpdate:       notAvailable,
		TempC:            notAvailable,
		WeatherCondition: notAvailable,
	}

	if r.UpdatedEpoch != nil {
		view.LastUpdate = EpochToISO(*r.UpdatedEpoch)
	}
	if r.TempC != nil {
		view.TempC = fmt.Sprintf("%.2f", *r.TempC)
	}
	if len(r.Conditions) > 0 {
		labels := make([]string, len(r.Conditions))
		for i, c := range r.Conditions {
			labels[i] = c.Label()
		}
		view.WeatherCondition = strings.Join(labels, " or ")
	}

	return json.Marshal(view)
}

// EpochToISO converts Unix seconds to an ISO-8601 string in UTC with an
// explicit +00:00 offset.
func EpochToISO(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(isoLayout)
}
