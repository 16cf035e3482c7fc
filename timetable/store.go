package timetable

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/theoremus-urban-solutions/departures-board/config"
	"github.com/theoremus-urban-solutions/departures-board/gtfs"
)

// Store owns the bundle lifecycle: refreshing the on-disk cache, loading it
// into a reduced timetable, and handing out the live snapshot. Snapshots are
// swapped with a copy-on-write atomic pointer, so readers keep a stable view
// even if a future revision moves refresh to a background task.
type Store struct {
	url      string
	dir      string
	timeout  time.Duration
	stops    map[string]config.StopSpec
	snapshot atomic.Pointer[snapshot]
}

type snapshot struct {
	table *Timetable
	stops map[string]config.StopSpec
}

// NewStore creates a store for the configured feed and monitored stops.
func NewStore(cfg config.AppConfig) *Store {
	return &Store{
		url:     cfg.Feed.URL,
		dir:     cfg.Feed.CacheDir,
		timeout: cfg.DownloadTimeout(),
		stops:   cfg.StopIndex(),
	}
}

// Refresh downloads a fresh bundle and atomically replaces the cache
// directory. It does not touch the live snapshot: a failed refresh leaves
// both the cached bundle and the served timetable intact.
func (s *Store) Refresh(ctx context.Context) error {
	return gtfs.Fetch(ctx, s.url, s.dir, s.timeout)
}

// Load parses the cached bundle, reduces it for the given day and swaps the
// new snapshot in. Readers of the previous snapshot are unaffected.
func (s *Store) Load(day time.Time) (gtfs.LoadStats, BuildStats, error) {
	monitored := make(map[string]struct{}, len(s.stops))
	for id := range s.stops {
		monitored[id] = struct{}{}
	}

	bundle, loadStats, err := gtfs.LoadBundle(s.dir, monitored)
	if err != nil {
		return loadStats, BuildStats{}, err
	}
	table, buildStats := Build(bundle, monitored, day)
	s.snapshot.Store(&snapshot{table: table, stops: s.stops})
	return loadStats, buildStats, nil
}

// Current returns the live timetable and the stop_id to StopSpec lookup.
// ok is false until the first successful Load.
func (s *Store) Current() (table *Timetable, stops map[string]config.StopSpec, ok bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, nil, false
	}
	return snap.table, snap.stops, true
}
