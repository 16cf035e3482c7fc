// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct tags.
// The monitored stop set, feed source and refresh window are all static:
// they are read once at startup and never change at runtime.
package config
