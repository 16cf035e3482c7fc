package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/departures-board/config"
	"github.com/theoremus-urban-solutions/departures-board/departures"
	"github.com/theoremus-urban-solutions/departures-board/display"
	"github.com/theoremus-urban-solutions/departures-board/gtfs"
	"github.com/theoremus-urban-solutions/departures-board/metrics"
	"github.com/theoremus-urban-solutions/departures-board/refresh"
	"github.com/theoremus-urban-solutions/departures-board/render"
	"github.com/theoremus-urban-solutions/departures-board/timetable"
)

// app owns all per-process state: the store, the refresh state and the
// display handle all live here and are written only from the single loop
// goroutine.
type app struct {
	cfg     config.AppConfig
	loc     *time.Location
	store   *timetable.Store
	board   render.Board
	display display.Display
	window  refresh.Window
	state   refresh.State
	metrics *metrics.Collector
}

// run drives the cooperative loop: refresh-decision, query, render, display,
// sleep. A failed cycle is logged and followed by the fixed backoff; only
// context cancellation ends the loop.
func (a *app) run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := a.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("cycle error: %v", err)
			if a.metrics != nil {
				a.metrics.CycleFailures.Inc()
			}
			sleepCtx(ctx, a.cfg.Backoff())
			continue
		}
		sleepCtx(ctx, a.cfg.UpdateInterval())
	}
	log.Printf("loop stopped: %v", ctx.Err())
}

func (a *app) cycle(ctx context.Context) error {
	start := time.Now()
	now := start.In(a.loc)

	if refresh.Due(now, a.state, a.window) {
		a.maybeRefresh(ctx, now)
	}

	table, stops, ok := a.store.Current()
	if !ok || table.ServiceDate != gtfs.DateKey(now) {
		// First load after start, or the service date rolled over since the
		// table was built.
		if err := a.load(now); err != nil {
			var noData *gtfs.NoDataError
			if !errors.As(err, &noData) {
				return err
			}
			log.Printf("no cached bundle: %v, fetching", err)
			if rerr := a.store.Refresh(ctx); rerr != nil {
				a.countRefresh(false)
				return rerr
			}
			a.countRefresh(true)
			a.state.MarkRefreshed(now)
			if err := a.load(now); err != nil {
				return err
			}
		}
		table, stops, ok = a.store.Current()
	}

	var recs []departures.Record
	if ok {
		recs = departures.Next(table, stops, now, a.cfg.Horizon())
	}
	if a.metrics != nil {
		a.metrics.Departures.Set(float64(len(recs)))
	}

	frame := a.board.Render(recs, now, ok)
	if err := a.display.Show(frame); err != nil {
		// A dead sink must not fail the cycle; fall back to the file path.
		log.Printf("display error: %v, writing %s instead", err, a.cfg.Board.OutputPath)
		fallback := &display.File{Path: a.cfg.Board.OutputPath}
		if ferr := fallback.Show(frame); ferr != nil {
			return ferr
		}
	}

	if a.metrics != nil {
		a.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

// maybeRefresh performs the weekly re-download. Failures are logged and
// retried on the next poll cycle while the window is open; the served
// timetable is untouched either way until the new bundle loads cleanly.
func (a *app) maybeRefresh(ctx context.Context, now time.Time) {
	log.Printf("weekly refresh window open, fetching bundle")
	if err := a.store.Refresh(ctx); err != nil {
		a.countRefresh(false)
		log.Printf("refresh failed, keeping cached bundle: %v", err)
		return
	}
	a.countRefresh(true)
	if err := a.load(now); err != nil {
		log.Printf("load after refresh failed: %v", err)
		return
	}
	a.state.MarkRefreshed(now)
	log.Printf("bundle refreshed")
}

func (a *app) load(now time.Time) error {
	loadStats, buildStats, err := a.store.Load(now)
	if err != nil {
		return err
	}
	skipped := loadStats.SkippedRows + buildStats.SkippedRows
	if a.metrics != nil {
		a.metrics.TableRows.Set(float64(buildStats.Rows))
		a.metrics.RowsSkipped.Add(float64(skipped))
	}
	log.Printf("timetable loaded: %d rows for %d monitored stops (%d stop_times parsed, %d rows skipped, filtered=%v)",
		buildStats.Rows, len(a.cfg.Stops), loadStats.StopTimes, skipped, loadStats.Filtered)
	return nil
}

func (a *app) countRefresh(success bool) {
	if a.metrics == nil {
		return
	}
	if success {
		a.metrics.Refreshes.WithLabelValues("success").Inc()
		a.metrics.LastRefresh.SetToCurrentTime()
	} else {
		a.metrics.Refreshes.WithLabelValues("failure").Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
