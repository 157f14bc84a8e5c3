package weather

import "time"

// StaleCutoff is the maximum age of an observation relative to now before
// it is excluded from aggregation. The boundary is inclusive.
const StaleCutoff = 6 * time.Hour

// usable reports whether an observation carries location and timestamp
// metadata and is fresh enough to aggregate.
func usable(o Observation, now int64) bool {
	return o.Latitude != nil && o.Longitude != nil && o.UpdatedEpoch != nil &&
		now-*o.UpdatedEpoch <= int64(StaleCutoff.Seconds())
}

// Aggregate fuses multiple observations for one city into a single Report.
// Observations missing location or timestamp, or older than StaleCutoff,
// are discarded. The second return value is false when nothing survives
// the filter; that is a "no data" outcome, not an error.
//
// The representative timestamp is the OLDEST epoch among survivors, so the
// record never claims to be fresher than its weakest contributor.
// Temperature is the mean over survivors that report one. The condition set
// is the deduplicated first condition of each survivor, except survivors
// whose condition is exactly [Unrecognized]: those still contribute
// location and temperature but add nothing to the set.
func Aggregate(observations []Observation) (Report, bool) {
	now := time.Now().Unix()

	var kept []Observation
	for _, o := range observations {
		if usable(o, now) {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return Report{}, false
	}

	oldest := *kept[0].UpdatedEpoch
	var (
		tempSum   float64
		tempCount int
		seen      = make(map[Condition]struct{})
		conds     []Condition
	)

	for _, o := range kept {
		if *o.UpdatedEpoch < oldest {
			oldest = *o.UpdatedEpoch
		}
		if o.TempC != nil {
			tempSum += *o.TempC
			tempCount++
		}
		if len(o.Conditions) == 0 {
			continue
		}
		if len(o.Conditions) == 1 && o.Conditions[0] == ConditionUnrecognized {
			continue
		}
		first := o.Conditions[0]
		if _, dup := seen[first]; !dup {
			seen[first] = struct{}{}
			conds = append(conds, first)
		}
	}

	var tempC *float64
	if tempCount > 0 {
		mean := tempSum / float64(tempCount)
		tempC = &mean
	}

	return Report{
		Latitude:     kept[0].Latitude,
		Longitude:    kept[0].Longitude,
		UpdatedEpoch: &oldest,
		TempC:        tempC,
		Conditions:   conds,
	}, true
}
