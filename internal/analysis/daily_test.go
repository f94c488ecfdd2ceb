package analysis

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

const dailyCSV = `date,bike_rides_daily,avgTemp
2022-01-15,21458,28.4
2022-04-20,64210,61.2
2022-07-04,98431,84.1
2022-07-05,101220,86.0
2022-10-12,72319,58.7
`

func TestLoadDailyDerivesSeasons(t *testing.T) {
	d, err := LoadDaily(strings.NewReader(dailyCSV))
	if err != nil {
		t.Fatalf("LoadDaily failed: %v", err)
	}

	rows := d.Rows()
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	want := []string{"Winter", "Spring", "Summer", "Summer", "Fall"}
	for i, row := range rows {
		if row.Season != want[i] {
			t.Errorf("row %d season = %q, want %q", i, row.Season, want[i])
		}
	}

	if rows[0].BikeRides != 21458 {
		t.Errorf("row 0 rides = %f, want 21458", rows[0].BikeRides)
	}
	if rows[2].AvgTempF != 84.1 {
		t.Errorf("row 2 temp = %f, want 84.1", rows[2].AvgTempF)
	}
}

func TestFilterBySeason(t *testing.T) {
	d, err := LoadDaily(strings.NewReader(dailyCSV))
	if err != nil {
		t.Fatalf("LoadDaily failed: %v", err)
	}

	summer := d.Filter([]string{"Summer"})
	if summer.Len() != 2 {
		t.Fatalf("expected 2 summer days, got %d", summer.Len())
	}
	if got := summer.TotalRides(); got != 98431+101220 {
		t.Errorf("summer total rides = %d, want %d", got, 98431+101220)
	}

	// Empty filter keeps everything.
	if d.Filter(nil).Len() != 5 {
		t.Error("empty season filter should keep all rows")
	}
}

func TestLoadDailyMissingColumn(t *testing.T) {
	_, err := LoadDaily(strings.NewReader("date,foo\n2022-01-01,1\n"))
	if !errors.Is(err, trips.ErrInputUnavailable) {
		t.Fatalf("missing column should be ErrInputUnavailable, got %v", err)
	}
}

func TestSeasonOf(t *testing.T) {
	cases := map[time.Month]string{
		time.December: "Winter",
		time.February: "Winter",
		time.March:    "Spring",
		time.June:     "Summer",
		time.November: "Fall",
	}
	for month, want := range cases {
		if got := SeasonOf(month); got != want {
			t.Errorf("SeasonOf(%v) = %q, want %q", month, got, want)
		}
	}
}
