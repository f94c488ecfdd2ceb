package aggregate

import (
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/stats"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// weekdayOrder lists days Monday-first, the way the dashboard charts
// them. time.Weekday starts on Sunday.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayDuration is the average trip duration for one weekday and
// rider type.
type WeekdayDuration struct {
	Weekday     time.Weekday
	RiderType   trips.RiderType
	TripCount   int
	MeanSeconds float64
}

// DurationByWeekday computes the mean trip duration per (weekday,
// rider type) bucket. Trips without a usable duration or start time
// are skipped. Rows come out Monday-first with member before casual,
// omitting empty buckets.
func DurationByWeekday(records []trips.TripRecord) []WeekdayDuration {
	type bucket struct {
		day   time.Weekday
		rider trips.RiderType
	}
	acc := make(map[bucket]*stats.Running)

	for i := range records {
		rec := &records[i]
		if !rec.Valid() || !rec.HasDuration() || rec.StartedAt.IsZero() {
			continue
		}
		b := bucket{day: rec.StartedAt.Weekday(), rider: rec.RiderType}
		r := acc[b]
		if r == nil {
			r = &stats.Running{}
			acc[b] = r
		}
		r.Add(rec.DurationSeconds)
	}

	var out []WeekdayDuration
	for _, day := range weekdayOrder {
		for _, rider := range []trips.RiderType{trips.RiderMember, trips.RiderCasual} {
			r, ok := acc[bucket{day: day, rider: rider}]
			if !ok {
				continue
			}
			out = append(out, WeekdayDuration{
				Weekday:     day,
				RiderType:   rider,
				TripCount:   r.Count,
				MeanSeconds: r.Mean,
			})
		}
	}
	return out
}
