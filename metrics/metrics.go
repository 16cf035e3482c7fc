// Package metrics exposes the daemon's operational counters over an
// optional Prometheus endpoint.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Refreshes     *prometheus.CounterVec // result label: success|failure
	CycleFailures prometheus.Counter
	RowsSkipped   prometheus.Counter

	TableRows     prometheus.Gauge
	Departures    prometheus.Gauge
	LastRefresh   prometheus.Gauge // unix seconds
	CycleDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_refreshes_total",
			Help: "Bundle refresh attempts by result.",
		}, []string{"result"}),
		CycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_cycle_failures_total",
			Help: "Poll cycles that ended in a logged failure.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_rows_skipped_total",
			Help: "Schedule rows skipped because they failed to parse.",
		}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_timetable_rows",
			Help: "Rows in the live reduced timetable.",
		}),
		Departures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_departures",
			Help: "Departures in the most recent query result.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful bundle refresh.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "board_cycle_duration_seconds",
			Help:    "Duration of one query+render+display cycle.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
	}

	reg.MustRegister(
		c.Refreshes, c.CycleFailures, c.RowsSkipped,
		c.TableRows, c.Departures, c.LastRefresh, c.CycleDuration,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
