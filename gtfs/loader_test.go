package gtfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeBundleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"stops.txt": "stop_id,stop_name\nS1,Piazza Nord\nS2,Piazza Sud\nS9,Elsewhere\n",
		"routes.txt": "route_id,route_short_name,route_long_name\n" +
			"R5,5,Cross Town\nR90,90,Ring\n",
		"trips.txt": "trip_id,route_id,service_id,trip_headsign\n" +
			"T1,R5,WEEKDAY,Depot\nT2,R90,WEEKDAY,Loop\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence,stop_headsign\n" +
			"T1,08:00:00,08:00:00,S1,1,Depot\n" +
			"T1,notatime,08:05:00,S1,2,Depot\n" +
			"T2,25:30:00,25:30:00,S2,1,Loop\n" +
			"T2,09:00:00,09:00:00,S9,2,Loop\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WEEKDAY,1,1,1,1,1,0,0,20260101,20261231\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadBundle(t *testing.T) {
	dir := writeBundleDir(t)
	monitored := map[string]struct{}{"S1": {}, "S2": {}}

	b, stats, err := LoadBundle(dir, monitored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.Filtered {
		t.Error("expected the stop_times pre-filter to be used")
	}
	if len(b.Trips) != 2 || len(b.Routes) != 2 || len(b.Stops) != 3 {
		t.Errorf("unexpected sizes: %d trips, %d routes, %d stops", len(b.Trips), len(b.Routes), len(b.Stops))
	}
	// The malformed arrival_time row still decodes here; S9 is filtered out.
	if len(b.StopTimes) != 3 {
		t.Errorf("expected 3 stop_times, got %d", len(b.StopTimes))
	}
	for _, st := range b.StopTimes {
		if st.StopID == "S9" {
			t.Error("unmonitored stop survived the pre-filter")
		}
	}
	if len(b.Calendars) != 1 {
		t.Errorf("expected 1 calendar row, got %d", len(b.Calendars))
	}
}

func TestLoadBundleNoFilterFallback(t *testing.T) {
	dir := writeBundleDir(t)

	// A monitored set absent from the feed fails the filter and falls back
	// to parsing the full file.
	b, stats, err := LoadBundle(dir, map[string]struct{}{"NOPE": {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Filtered {
		t.Error("filter should have been abandoned after matching zero rows")
	}
	if len(b.StopTimes) != 4 {
		t.Errorf("expected the full 4 stop_times, got %d", len(b.StopTimes))
	}
}

func TestLoadBundleMissingDir(t *testing.T) {
	var noData *NoDataError
	_, _, err := LoadBundle(filepath.Join(t.TempDir(), "absent"), nil)
	if !errors.As(err, &noData) {
		t.Fatalf("expected NoDataError, got %v", err)
	}
}

func TestLoadBundleEmptyStopTimes(t *testing.T) {
	dir := writeBundleDir(t)
	if err := os.WriteFile(filepath.Join(dir, "stop_times.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var noData *NoDataError
	_, _, err := LoadBundle(dir, nil)
	if !errors.As(err, &noData) {
		t.Fatalf("expected NoDataError, got %v", err)
	}
}

func TestLoadBundleSkipsMalformedRows(t *testing.T) {
	dir := writeBundleDir(t)
	// Append a short row to trips.txt.
	f, err := os.OpenFile(filepath.Join(dir, "trips.txt"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("T3,R5\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	b, stats, err := LoadBundle(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Trips) != 2 {
		t.Errorf("expected the malformed trip to be skipped, got %d trips", len(b.Trips))
	}
	if stats.SkippedRows == 0 {
		t.Error("expected a nonzero skipped-row count")
	}
}
