// Package departures computes the next-arrivals list served to the board
// renderer: a pure function of the reduced timetable, the monitored stop
// lookup and the current instant.
package departures

import (
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/departures-board/config"
	"github.com/theoremus-urban-solutions/departures-board/timetable"
)

// MaxPerGroup caps how many departures are retained per line+destination:
// the board only ever shows the soonest two.
const MaxPerGroup = 2

const secondsPerDay = 86400

// Record is one upcoming departure. The list handed to the renderer is
// already sorted ascending by Minutes and capped per group; the renderer
// adds no ordering of its own.
type Record struct {
	Line        string `json:"line"`
	Destination string `json:"destination"`
	StopID      string `json:"stop_id"`
	Direction   string `json:"direction"`
	Minutes     int    `json:"minutes"`
}

type groupKey struct {
	line        string
	destination string
}

// Next returns the upcoming departures within the horizon, at most
// MaxPerGroup per line+destination, sorted ascending by minutes with a
// deterministic line-then-destination tie-break. An empty result is a
// valid answer meaning "no imminent departures".
//
// Rows with negative or otherwise unusable offsets are skipped, not
// guessed at.
func Next(t *timetable.Timetable, stops map[string]config.StopSpec, now time.Time, horizon time.Duration) []Record {
	if t == nil {
		return nil
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deadline := now.Add(horizon)

	groups := make(map[groupKey][]Record)
	for _, row := range t.Rows {
		if row.ArrivalOffset < 0 {
			continue
		}
		days := row.ArrivalOffset / secondsPerDay
		tod := row.ArrivalOffset % secondsPerDay
		instant := midnight.AddDate(0, 0, days).Add(time.Duration(tod) * time.Second)
		if instant.Before(now) || instant.After(deadline) {
			continue
		}
		minutes := int(instant.Sub(now) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}

		line := firstNonEmpty(row.RouteShortName, row.RouteID, "line")
		dest := firstNonEmpty(row.StopHeadsign, row.TripHeadsign, row.RouteLongName, "destination unavailable")
		key := groupKey{line: line, destination: dest}
		groups[key] = append(groups[key], Record{
			Line:        line,
			Destination: dest,
			StopID:      row.StopID,
			Direction:   stops[row.StopID].Label,
			Minutes:     minutes,
		})
	}

	var out []Record
	for _, recs := range groups {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Minutes < recs[j].Minutes })
		if len(recs) > MaxPerGroup {
			recs = recs[:MaxPerGroup]
		}
		out = append(out, recs...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Minutes != b.Minutes {
			return a.Minutes < b.Minutes
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Destination < b.Destination
	})
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
