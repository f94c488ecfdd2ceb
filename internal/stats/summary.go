package stats

import (
	moremath "github.com/aclements/go-moremath/stats"
)

// DurationSummary describes the distribution of trip durations for one
// group (a route pair, a weekday bucket, etc.). All values are in
// seconds.
type DurationSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// Summarize computes a DurationSummary over the given observations.
// An empty input yields the zero summary.
func Summarize(xs []float64) DurationSummary {
	if len(xs) == 0 {
		return DurationSummary{}
	}

	sample := (&moremath.Sample{Xs: append([]float64(nil), xs...)}).Sort()
	return DurationSummary{
		Count:  len(xs),
		Mean:   sample.Mean(),
		StdDev: sample.StdDev(),
		Median: sample.Quantile(0.5),
		P90:    sample.Quantile(0.9),
	}
}
