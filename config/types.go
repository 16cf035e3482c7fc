package config

import "time"

// StopSpec identifies one monitored physical stop. The set is fixed at
// startup and never changes at runtime.
type StopSpec struct {
	ID    string `yaml:"id" validate:"required"`
	Label string `yaml:"label"`
}

// FeedConfig contains the static GTFS bundle source and cache location.
type FeedConfig struct {
	URL               string `yaml:"url" validate:"required,url"`
	CacheDir          string `yaml:"cacheDir"`
	DownloadTimeoutMS int    `yaml:"downloadTimeoutMS" validate:"gte=0"`
}

// RefreshConfig describes the weekly maintenance window. The bundle is
// re-downloaded only during the last WindowMinutes before midnight of
// Weekday, at most once per calendar date.
type RefreshConfig struct {
	Weekday       string `yaml:"weekday" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	WindowMinutes int    `yaml:"windowMinutes" validate:"gte=0,lte=59"`
}

// BoardConfig contains the display surface parameters.
type BoardConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width" validate:"gte=0"`
	Height     int    `yaml:"height" validate:"gte=0"`
	OutputPath string `yaml:"outputPath"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Stops          []StopSpec    `yaml:"stops" validate:"required,min=1,dive"`
	Feed           FeedConfig    `yaml:"feed" validate:"required"`
	Refresh        RefreshConfig `yaml:"refresh"`
	Board          BoardConfig   `yaml:"board"`
	UpdateSeconds  int           `yaml:"updateSeconds" validate:"gte=0"`
	HorizonMinutes int           `yaml:"horizonMinutes" validate:"gte=0"`
	BackoffSeconds int           `yaml:"backoffSeconds" validate:"gte=0"`
	Timezone       string        `yaml:"timezone"`
	MetricsAddr    string        `yaml:"metricsAddr"`
}

// UpdateInterval returns the poll cadence as a duration.
func (c AppConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateSeconds) * time.Second
}

// Horizon returns how far ahead of "now" arrivals are still reported.
func (c AppConfig) Horizon() time.Duration {
	return time.Duration(c.HorizonMinutes) * time.Minute
}

// Backoff returns the fixed delay applied after a failed cycle.
func (c AppConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds) * time.Second
}

// DownloadTimeout returns the bound on a single bundle download.
func (c AppConfig) DownloadTimeout() time.Duration {
	return time.Duration(c.Feed.DownloadTimeoutMS) * time.Millisecond
}

// RefreshWeekday maps the configured weekday name to time.Weekday.
func (c AppConfig) RefreshWeekday() time.Weekday {
	switch c.Refresh.Weekday {
	case "Monday":
		return time.Monday
	case "Tuesday":
		return time.Tuesday
	case "Wednesday":
		return time.Wednesday
	case "Thursday":
		return time.Thursday
	case "Friday":
		return time.Friday
	case "Saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
