package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
stops:
  - id: "12422"
    label: "Niguarda"
  - id: "12423"
    label: "Ortica"
feed:
  url: "https://transit.example.com/gtfs.zip"
  cacheDir: "data"
updateSeconds: 120
timezone: "Europe/Rome"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(cfg.Stops))
	}
	if cfg.Stops[0].ID != "12422" || cfg.Stops[0].Label != "Niguarda" {
		t.Errorf("unexpected first stop: %+v", cfg.Stops[0])
	}
	if cfg.UpdateInterval() != 2*time.Minute {
		t.Errorf("expected 2m update interval, got %s", cfg.UpdateInterval())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
stops:
  - id: "1"
feed:
  url: "https://transit.example.com/gtfs.zip"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UpdateSeconds != 120 {
		t.Errorf("default updateSeconds: got %d", cfg.UpdateSeconds)
	}
	if cfg.HorizonMinutes != 120 {
		t.Errorf("default horizonMinutes: got %d", cfg.HorizonMinutes)
	}
	if cfg.BackoffSeconds != 60 {
		t.Errorf("default backoffSeconds: got %d", cfg.BackoffSeconds)
	}
	if cfg.Refresh.WindowMinutes != 5 {
		t.Errorf("default refresh window: got %d", cfg.Refresh.WindowMinutes)
	}
	if cfg.RefreshWeekday() != time.Sunday {
		t.Errorf("default refresh weekday: got %s", cfg.RefreshWeekday())
	}
	if cfg.Board.Width != 800 || cfg.Board.Height != 480 {
		t.Errorf("default board size: got %dx%d", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Feed.CacheDir != "data" {
		t.Errorf("default cacheDir: got %q", cfg.Feed.CacheDir)
	}
	if cfg.DownloadTimeout() != time.Minute {
		t.Errorf("default download timeout: got %s", cfg.DownloadTimeout())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no stops", "feed:\n  url: \"https://transit.example.com/gtfs.zip\"\n"},
		{"stop without id", "stops:\n  - label: \"x\"\nfeed:\n  url: \"https://transit.example.com/gtfs.zip\"\n"},
		{"bad feed url", "stops:\n  - id: \"1\"\nfeed:\n  url: \"not a url\"\n"},
		{"bad weekday", validYAML + "refresh:\n  weekday: Someday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestStopIndex(t *testing.T) {
	cfg := AppConfig{Stops: []StopSpec{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}}
	idx := cfg.StopIndex()
	if len(idx) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx))
	}
	if idx["b"].Label != "B" {
		t.Errorf("unexpected entry: %+v", idx["b"])
	}
}

func TestLocation(t *testing.T) {
	cfg := AppConfig{Timezone: "Europe/Rome"}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Rome" {
		t.Errorf("expected Europe/Rome, got %v (%v)", loc, err)
	}

	if _, err := (AppConfig{Timezone: "Not/AZone"}).Location(); err == nil {
		t.Error("expected error for bad timezone")
	}
}
