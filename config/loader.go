package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the application configuration. The path argument
// wins; otherwise BOARD_CONFIG from the environment (a .env file is honoured),
// otherwise config.yml next to the binary.
func Load(path string) (AppConfig, error) {
	_ = godotenv.Load()

	paths := []string{"config.yml", "./config/config.yml"}
	if env := os.Getenv("BOARD_CONFIG"); env != "" {
		paths = []string{env}
	}
	if path != "" {
		paths = []string{path}
	}

	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&cfg)

	if tz := os.Getenv("TZ"); tz != "" && cfg.Timezone == "" {
		cfg.Timezone = tz
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Feed.CacheDir == "" {
		cfg.Feed.CacheDir = "data"
	}
	if cfg.Feed.DownloadTimeoutMS == 0 {
		cfg.Feed.DownloadTimeoutMS = 60000
	}
	if cfg.Refresh.WindowMinutes == 0 {
		cfg.Refresh.WindowMinutes = 5
	}
	if cfg.UpdateSeconds == 0 {
		cfg.UpdateSeconds = 120
	}
	if cfg.HorizonMinutes == 0 {
		cfg.HorizonMinutes = 120
	}
	if cfg.BackoffSeconds == 0 {
		cfg.BackoffSeconds = 60
	}
	if cfg.Board.Width == 0 {
		cfg.Board.Width = 800
	}
	if cfg.Board.Height == 0 {
		cfg.Board.Height = 480
	}
	if cfg.Board.Title == "" {
		cfg.Board.Title = "DEPARTURES"
	}
	if cfg.Board.OutputPath == "" {
		cfg.Board.OutputPath = "board.png"
	}
}

// Location resolves the configured timezone, falling back to local time.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StopIndex returns the stop_id to StopSpec lookup used by the query engine.
func (c AppConfig) StopIndex() map[string]StopSpec {
	idx := make(map[string]StopSpec, len(c.Stops))
	for _, s := range c.Stops {
		idx[s.ID] = s
	}
	return idx
}
