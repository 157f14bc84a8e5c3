package weather

import (
	"strings"

	"github.com/danielfonkaz/WeatherAggregator/internal/common"
)

// Condition is a normalized weather state shared across providers.
// The numeric values are stable identifiers; do not reorder.
type Condition int

const (
	ConditionClear Condition = iota
	ConditionPartiallyCloudy
	ConditionCloudy
	ConditionDrizzle
	ConditionLightRain
	ConditionModerateRain
	ConditionHeavyRain
	ConditionLightSnow
	ConditionModerateSnow
	ConditionHeavySnow
	ConditionOvercast
	ConditionMist
	ConditionFog
	ConditionUnrecognized
)

var conditionLabels = [...]string{
	ConditionClear:           "Clear",
	ConditionPartiallyCloudy: "Partially Cloudy",
	ConditionCloudy:          "Cloudy",
	ConditionDrizzle:         "Drizzle",
	ConditionLightRain:       "Light Rain",
	ConditionModerateRain:    "Moderate Rain",
	ConditionHeavyRain:       "Heavy Rain",
	ConditionLightSnow:       "Light Snow",
	ConditionModerateSnow:    "Moderate Snow",
	ConditionHeavySnow:       "Heavy Snow",
	ConditionOvercast:        "Overcast",
	ConditionMist:            "Mist",
	ConditionFog:             "Fog",
	ConditionUnrecognized:    "Unrecognized",
}

// Label returns the human-readable display name for the condition.
func (c Condition) Label() string {
	if c < 0 || int(c) >= len(conditionLabels) {
		return conditionLabels[ConditionUnrecognized]
	}
	return conditionLabels[c]
}

func (c Condition) String() string {
	return c.Label()
}

// conditionRewrites strips or replaces common provider modifiers before
// keyword matching. Applied sequentially; a rewrite may create or destroy
// substrings matched by later ones, so the order is part of the contract.
var conditionRewrites = [...]struct{ old, new string }{
	{"shower", ""},
	{"at times", ""},
	{"slight", "light"},
	{"fall", ""},
	{"partly", "partially"},
	{"patchy", "light"},
	{"violent", "heavy"},
}

// Classify maps a free-form provider condition string onto a Condition.
// Matching is fuzzy: the text is lower-cased and rewritten, then checked
// against keyword rules in a fixed order where the first match wins.
// Unmatched text yields ConditionUnrecognized; Classify never fails.
func Classify(text string) Condition {
	s := strings.ToLower(text)
	for _, r := range conditionRewrites {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	s = strings.TrimSpace(s)

	switch {
	case common.HasAny(s, "clear", "sunny"):
		return ConditionClear
	case strings.Contains(s, "cloudy"):
		if strings.Contains(s, "partially") {
			return ConditionPartiallyCloudy
		}
		return ConditionCloudy
	case strings.Contains(s, "drizzle"):
		return ConditionDrizzle
	case strings.Contains(s, "rain"):
		return classifyIntensity(s, ConditionLightRain, ConditionModerateRain, ConditionHeavyRain)
	case strings.Contains(s, "snow"):
		return classifyIntensity(s, ConditionLightSnow, ConditionModerateSnow, ConditionHeavySnow)
	case strings.Contains(s, "mist"):
		return ConditionMist
	case strings.Contains(s, "fog"):
		return ConditionFog
	case strings.Contains(s, "overcast"):
		return ConditionOvercast
	}
	return ConditionUnrecognized
}

// classifyIntensity resolves the light/moderate/heavy qualifier for rain and
// snow. Unqualified text defaults to moderate.
func classifyIntensity(s string, light, moderate, heavy Condition) Condition {
	switch {
	case strings.Contains(s, "light"):
		return light
	case strings.Contains(s, "moderate"):
		return moderate
	case strings.Contains(s, "heavy"):
		return heavy
	}
	return moderate
}
