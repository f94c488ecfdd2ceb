package stats

import "math"

// Running accumulates mean and standard deviation incrementally using
// Welford's online algorithm, so duration statistics can be folded
// over millions of trips in O(1) space.
type Running struct {
	Count int     // number of observations
	Mean  float64 // running mean
	M2    float64 // sum of squared differences from the mean
}

// Resume reconstructs a Running accumulator from the count, mean, and
// M2 a previous run stored, so a stored aggregate can report its
// deviation or keep absorbing observations.
func Resume(count int, mean, m2 float64) *Running {
	if count == 0 {
		return &Running{}
	}
	return &Running{Count: count, Mean: mean, M2: m2}
}

// Add folds one observation into the accumulator.
func (r *Running) Add(x float64) {
	r.Count++
	delta := x - r.Mean
	r.Mean += delta / float64(r.Count)
	delta2 := x - r.Mean
	r.M2 += delta * delta2
}

// StdDev returns the population standard deviation, or 0 with fewer
// than 2 observations.
func (r *Running) StdDev() float64 {
	if r.Count < 2 {
		return 0
	}
	return math.Sqrt(r.M2 / float64(r.Count))
}
