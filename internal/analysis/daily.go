// Package analysis works with the pre-joined daily usage table: one
// row per day of 2022 with the city-wide ride count and the average
// NOAA temperature for that day.
package analysis

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// Seasons in calendar order, matching the dashboard's season filter.
var Seasons = []string{"Winter", "Spring", "Summer", "Fall"}

// DailyUsage is one row of the daily series.
type DailyUsage struct {
	Date      time.Time `json:"date"`
	BikeRides float64   `json:"bike_rides_daily"`
	AvgTempF  float64   `json:"avg_temp_f"`
	Season    string    `json:"season"`
}

// DailySeries wraps the daily usage dataframe with a derived season
// column.
type DailySeries struct {
	df dataframe.DataFrame
}

// LoadDailyFile reads the daily usage CSV from disk.
func LoadDailyFile(path string) (*DailySeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trips.ErrInputUnavailable, err)
	}
	defer f.Close()
	return LoadDaily(f)
}

// LoadDaily reads the daily usage CSV (columns date, bike_rides_daily,
// avgTemp) and derives the season column from the date's month.
func LoadDaily(r io.Reader) (*DailySeries, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", trips.ErrInputUnavailable, df.Err)
	}

	for _, col := range []string{"date", "bike_rides_daily", "avgTemp"} {
		if !hasColumn(df, col) {
			return nil, fmt.Errorf("%w: daily series missing column %q", trips.ErrInputUnavailable, col)
		}
	}

	// Derive season from the month, the same mapping the dashboard
	// uses: Dec-Feb Winter, Mar-May Spring, Jun-Aug Summer, Sep-Nov Fall.
	dates := df.Col("date").Records()
	seasons := make([]string, len(dates))
	for i, s := range dates {
		d, err := parseDate(s)
		if err != nil {
			seasons[i] = ""
			continue
		}
		seasons[i] = SeasonOf(d.Month())
	}
	df = df.Mutate(series.New(seasons, series.String, "season"))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to derive season column: %w", df.Err)
	}

	log.Printf("Daily series loaded: %d days", df.Nrow())
	return &DailySeries{df: df}, nil
}

// SeasonOf maps a month to its meteorological-ish season.
func SeasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

// Filter returns the subset of days falling in any of the given
// seasons. An empty filter returns the series unchanged.
func (d *DailySeries) Filter(seasons []string) *DailySeries {
	if len(seasons) == 0 {
		return d
	}
	filtered := d.df.Filter(dataframe.F{
		Colname:    "season",
		Comparator: series.In,
		Comparando: seasons,
	})
	return &DailySeries{df: filtered}
}

// Rows materializes the series for export and API responses. Rows
// with an unparseable date are skipped.
func (d *DailySeries) Rows() []DailyUsage {
	if d.df.Nrow() == 0 {
		return nil
	}

	dates := d.df.Col("date").Records()
	rides := d.df.Col("bike_rides_daily").Float()
	temps := d.df.Col("avgTemp").Float()
	seasons := d.df.Col("season").Records()

	out := make([]DailyUsage, 0, len(dates))
	for i := range dates {
		date, err := parseDate(dates[i])
		if err != nil {
			continue
		}
		out = append(out, DailyUsage{
			Date:      date,
			BikeRides: rides[i],
			AvgTempF:  temps[i],
			Season:    seasons[i],
		})
	}
	return out
}

// TotalRides sums the daily ride counts over the series.
func (d *DailySeries) TotalRides() int {
	var total float64
	for _, v := range d.df.Col("bike_rides_daily").Float() {
		total += v
	}
	return int(total)
}

// Len returns the number of days in the series.
func (d *DailySeries) Len() int {
	return d.df.Nrow()
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
