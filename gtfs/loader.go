package gtfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
)

// LoadStats reports what happened during a bundle load.
type LoadStats struct {
	SkippedRows int
	Filtered    bool
	StopTimes   int
}

// LoadBundle parses the cached bundle directory into a Bundle. When a
// monitored stop set is given, stop_times.txt is narrowed through
// FilterStopTimes first; filter failures fall back to the full parse.
//
// A missing directory or a missing/empty stop_times.txt yields NoDataError.
// Individual malformed rows are skipped and counted, never fatal.
func LoadBundle(dir string, monitored map[string]struct{}) (*Bundle, LoadStats, error) {
	var stats LoadStats

	stPath := filepath.Join(dir, "stop_times.txt")
	if fi, err := os.Stat(stPath); err != nil || fi.Size() == 0 {
		return nil, stats, &NoDataError{Dir: dir}
	}

	b := &Bundle{}
	var err error
	if b.Stops, err = decodeAll[Stop](filepath.Join(dir, "stops.txt"), true, &stats); err != nil {
		return nil, stats, err
	}
	if b.Routes, err = decodeAll[Route](filepath.Join(dir, "routes.txt"), true, &stats); err != nil {
		return nil, stats, err
	}
	if b.Trips, err = decodeAll[Trip](filepath.Join(dir, "trips.txt"), true, &stats); err != nil {
		return nil, stats, err
	}
	if b.Calendars, err = decodeAll[Calendar](filepath.Join(dir, "calendar.txt"), false, &stats); err != nil {
		return nil, stats, err
	}
	if b.CalendarDates, err = decodeAll[CalendarDate](filepath.Join(dir, "calendar_dates.txt"), false, &stats); err != nil {
		return nil, stats, err
	}

	if b.StopTimes, stats.Filtered, err = loadStopTimes(dir, stPath, monitored, &stats); err != nil {
		return nil, stats, err
	}
	stats.StopTimes = len(b.StopTimes)

	if len(b.Trips) == 0 || len(b.StopTimes) == 0 {
		return nil, stats, &NoDataError{Dir: dir}
	}
	return b, stats, nil
}

func loadStopTimes(dir, stPath string, monitored map[string]struct{}, stats *LoadStats) ([]StopTime, bool, error) {
	if len(monitored) > 0 {
		tmp, err := os.CreateTemp(dir, "stop_times-filtered-*.txt")
		if err == nil {
			tmp.Close()
			defer os.Remove(tmp.Name())
			if _, err := FilterStopTimes(stPath, tmp.Name(), monitored); err == nil {
				rows, derr := decodeAll[StopTime](tmp.Name(), true, stats)
				return rows, true, derr
			} else if errors.Is(err, ErrFilterEmpty) {
				log.Printf("stop_times filter matched no rows, falling back to full parse")
			} else {
				log.Printf("stop_times filter failed: %v, falling back to full parse", err)
			}
		}
	}
	rows, err := decodeAll[StopTime](stPath, true, stats)
	return rows, false, err
}

// decodeAll decodes one tabular file row by row. When required is false a
// missing file is not an error. Rows that fail to decode are skipped and
// counted.
func decodeAll[T any](path string, required bool, stats *LoadStats) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if required {
				return nil, &NoDataError{Dir: filepath.Dir(path)}
			}
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var out []T
	var firstBad error
	line := 1 // header
	for {
		var row T
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			stats.SkippedRows++
			if firstBad == nil {
				firstBad = &MalformedRowError{File: filepath.Base(path), Line: line, Reason: err}
			}
			continue
		}
		out = append(out, row)
	}
	if firstBad != nil {
		log.Printf("skipped malformed rows, first: %v", firstBad)
	}
	return out, nil
}
