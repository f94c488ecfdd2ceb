package trips

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInputUnavailable is returned when the trip source cannot be read
// at all: missing file, unreadable archive, or a file with no header
// row. Malformed individual rows are dropped silently instead.
var ErrInputUnavailable = errors.New("trip input unavailable")

// Column candidates. Citi Bike renamed most columns in the 2021 schema
// change, so each logical field is looked up under every name it has
// shipped with.
var (
	startTimeCols    = []string{"started_at", "starttime", "start_time"}
	endTimeCols      = []string{"ended_at", "stoptime", "end_time"}
	riderTypeCols    = []string{"member_casual", "usertype", "user_type"}
	startStationIDs  = []string{"start_station_id", "start station id"}
	endStationIDs    = []string{"end_station_id", "end station id"}
	startStationName = []string{"start_station_name", "start station name"}
	endStationName   = []string{"end_station_name", "end station name"}
	startLatCols     = []string{"start_lat", "start station latitude"}
	startLngCols     = []string{"start_lng", "start station longitude"}
	endLatCols       = []string{"end_lat", "end station latitude"}
	endLngCols       = []string{"end_lng", "end station longitude"}
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
}

// ParseFile reads trip records from a CSV file. A .zip path is
// accepted too: the first .csv member inside is parsed, which matches
// how the monthly tripdata dumps are distributed.
func ParseFile(path string) ([]TripRecord, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return parseZip(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	defer f.Close()

	return Parse(f)
}

func parseZip(path string) ([]TripRecord, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
		}
		defer rc.Close()
		return Parse(rc)
	}

	return nil, fmt.Errorf("%w: no csv member in %s", ErrInputUnavailable, path)
}

// Parse reads trip records from CSV data. Rows missing a required
// field are dropped silently; only a completely unreadable input is
// an error.
func Parse(r io.Reader) ([]TripRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInputUnavailable, err)
	}

	idx := makeIndex(header)

	var records []TripRecord
	dropped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}

		rec, ok := parseRow(row, idx)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	log.Printf("Trips parsed: %d kept, %d dropped", len(records), dropped)
	return records, nil
}

func parseRow(row []string, idx map[string]int) (TripRecord, bool) {
	rec := TripRecord{
		RideID:           getField(row, idx, "ride_id"),
		StartStationID:   getAny(row, idx, startStationIDs),
		StartStationName: getAny(row, idx, startStationName),
		EndStationID:     getAny(row, idx, endStationIDs),
		EndStationName:   getAny(row, idx, endStationName),
		RiderType:        normalizeRider(getAny(row, idx, riderTypeCols)),
	}

	var err error
	if rec.StartLat, err = parseFloat(getAny(row, idx, startLatCols)); err != nil {
		return rec, false
	}
	if rec.StartLng, err = parseFloat(getAny(row, idx, startLngCols)); err != nil {
		return rec, false
	}
	if rec.EndLat, err = parseFloat(getAny(row, idx, endLatCols)); err != nil {
		return rec, false
	}
	if rec.EndLng, err = parseFloat(getAny(row, idx, endLngCols)); err != nil {
		return rec, false
	}

	rec.StartedAt = parseTime(getAny(row, idx, startTimeCols))
	rec.EndedAt = parseTime(getAny(row, idx, endTimeCols))
	rec.DurationSeconds = duration(rec.StartedAt, rec.EndedAt)

	if !rec.Valid() {
		return rec, false
	}
	return rec, true
}

// duration returns the trip duration in seconds, or -1 when either
// timestamp is missing or the trip ends before it starts.
func duration(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return -1
	}
	d := end.Sub(start).Seconds()
	if d < 0 {
		return -1
	}
	return d
}

func normalizeRider(s string) RiderType {
	switch strings.ToLower(s) {
	case "member", "subscriber":
		return RiderMember
	case "casual", "customer":
		return RiderCasual
	}
	return RiderType(strings.ToLower(s))
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func getField(row []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func getAny(row []string, idx map[string]int, fields []string) string {
	for _, f := range fields {
		if v := getField(row, idx, f); v != "" {
			return v
		}
	}
	return ""
}
