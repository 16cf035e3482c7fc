package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoremus-urban-solutions/departures-board/config"
	"github.com/theoremus-urban-solutions/departures-board/display"
	"github.com/theoremus-urban-solutions/departures-board/internal"
	"github.com/theoremus-urban-solutions/departures-board/metrics"
	"github.com/theoremus-urban-solutions/departures-board/refresh"
	"github.com/theoremus-urban-solutions/departures-board/render"
	"github.com/theoremus-urban-solutions/departures-board/timetable"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (overrides BOARD_CONFIG)")
	backend := flag.String("display", "file", "display backend")
	once := flag.Bool("once", false, "render a single frame and exit")
	flag.Parse()

	internal.InitLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var mcol *metrics.Collector
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector()
		metricsSrv = mcol.Serve(cfg.MetricsAddr)
	}

	disp, err := display.Open(*backend, cfg.Board.OutputPath)
	if err != nil {
		var unavailable *display.UnavailableError
		if !errors.As(err, &unavailable) {
			log.Fatalf("display error: %v", err)
		}
		log.Printf("%v, falling back to file output %s", err, cfg.Board.OutputPath)
		disp = &display.File{Path: cfg.Board.OutputPath}
	}

	a := &app{
		cfg:   cfg,
		loc:   loc,
		store: timetable.NewStore(cfg),
		board: render.Board{
			Width:       cfg.Board.Width,
			Height:      cfg.Board.Height,
			Title:       cfg.Board.Title,
			UpdateEvery: cfg.UpdateInterval(),
		},
		display: disp,
		window: refresh.Window{
			Weekday: cfg.RefreshWeekday(),
			Minutes: cfg.Refresh.WindowMinutes,
		},
		metrics: mcol,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("departures board starting, %d monitored stops, poll every %s", len(cfg.Stops), cfg.UpdateInterval())

	if *once {
		if err := a.cycle(ctx); err != nil {
			log.Fatalf("cycle error: %v", err)
		}
	} else {
		a.run(ctx)
	}

	if err := a.display.Close(); err != nil {
		log.Printf("display close error: %v", err)
	}
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	log.Printf("shutdown complete")
}
