package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/departures-board/gtfs"
)

// Row is one retained stop-time, pre-joined with its trip and route. Every
// row's StopID belongs to the monitored stop set.
type Row struct {
	StopID         string
	ArrivalOffset  int // seconds since service-day midnight; may exceed 86400
	TripID         string
	RouteID        string
	RouteShortName string
	RouteLongName  string
	TripHeadsign   string
	StopHeadsign   string
	ServiceID      string
}

// Timetable is the reduced in-memory working set for one service date.
// It is built once per load and read-only afterwards.
type Timetable struct {
	Rows        []Row
	ServiceDate string // YYYYMMDD the active-service filter was computed for
	BuiltAt     time.Time
}

// BuildStats reports reduction outcomes for observability.
type BuildStats struct {
	Rows        int
	SkippedRows int
}

// Build reduces a bundle to the monitored stops and the services active on
// the given day. Trips and routes are joined through indexed lookups built
// once here, so the per-row cost is O(1).
func Build(b *gtfs.Bundle, monitored map[string]struct{}, day time.Time) (*Timetable, BuildStats) {
	trips := make(map[string]gtfs.Trip, len(b.Trips))
	for _, t := range b.Trips {
		trips[t.ID] = t
	}
	routes := make(map[string]gtfs.Route, len(b.Routes))
	for _, r := range b.Routes {
		routes[r.ID] = r
	}
	active := gtfs.ActiveServices(b, day)

	t := &Timetable{
		ServiceDate: gtfs.DateKey(day),
		BuiltAt:     time.Now(),
	}
	var stats BuildStats
	for _, st := range b.StopTimes {
		if _, ok := monitored[st.StopID]; !ok {
			continue
		}
		trip, ok := trips[st.TripID]
		if !ok {
			stats.SkippedRows++
			continue
		}
		if active != nil {
			if _, ok := active[trip.ServiceID]; !ok {
				continue
			}
		}
		offset, err := ParseOffset(st.ArrivalTime)
		if err != nil {
			stats.SkippedRows++
			continue
		}
		route := routes[trip.RouteID]
		t.Rows = append(t.Rows, Row{
			StopID:         st.StopID,
			ArrivalOffset:  offset,
			TripID:         st.TripID,
			RouteID:        trip.RouteID,
			RouteShortName: route.ShortName,
			RouteLongName:  route.LongName,
			TripHeadsign:   trip.Headsign,
			StopHeadsign:   st.Headsign,
			ServiceID:      trip.ServiceID,
		})
	}
	stats.Rows = len(t.Rows)
	return t, stats
}

// ParseOffset converts a GTFS HH:MM:SS timestamp into seconds since
// midnight of the service day. Hours beyond 24 are legal and represent
// trips that run past midnight.
func ParseOffset(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid arrival_time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid arrival_time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid arrival_time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid arrival_time %q", s)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid arrival_time %q", s)
	}
	return h*3600 + m*60 + sec, nil
}
