// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the migwatch configuration file.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so the YAML file can say "90s" or "5m"
// instead of nanosecond integers.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Dir enables JSON file logging when set.
	Dir string `yaml:"dir"`
}

// ServeConfig configures the headless HTTP API.
type ServeConfig struct {
	// Addr is the listen address for `migwatch serve`.
	Addr string `yaml:"addr"`
}

// Config is the full migwatch configuration.
type Config struct {
	// StatusURL is the migration status endpoint. Required; there is
	// no sensible default for someone else's migration.
	StatusURL string `yaml:"status_url"`

	// PollInterval is how often the tracker polls the endpoint.
	PollInterval Duration `yaml:"poll_interval"`

	// HTTPTimeout bounds each status request.
	HTTPTimeout Duration `yaml:"http_timeout"`

	// DataDir holds the BadgerDB history database. Supports ~.
	DataDir string `yaml:"data_dir"`

	Log   LogConfig   `yaml:"log"`
	Serve ServeConfig `yaml:"serve"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		StatusURL:    "",
		PollInterval: Duration(90 * time.Second),
		HTTPTimeout:  Duration(15 * time.Second),
		DataDir:      "~/.migwatch/data",
		Log: LogConfig{
			Level: "info",
			Dir:   "",
		},
		Serve: ServeConfig{
			Addr: ":8790",
		},
	}
}

// Validate checks the fields commands depend on.
func (c Config) Validate() error {
	if c.StatusURL == "" {
		return fmt.Errorf("status_url is not set (config file, --url flag, or MIGWATCH_STATUS_URL)")
	}
	if c.PollInterval.Std() <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval.Std())
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is not set")
	}
	return nil
}
