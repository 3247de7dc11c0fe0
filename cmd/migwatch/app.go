// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/halcyonlabs/migwatch/cmd/migwatch/config"
	"github.com/halcyonlabs/migwatch/pkg/history"
	"github.com/halcyonlabs/migwatch/pkg/logging"
	"github.com/halcyonlabs/migwatch/pkg/poller"
	"github.com/halcyonlabs/migwatch/pkg/statusapi"
	"github.com/halcyonlabs/migwatch/pkg/storage/badger"
)

// app wires the tracker's components for one command invocation.
// Explicit construction and teardown; no package-level state.
type app struct {
	cfg    config.Config
	log    *logging.Logger
	db     *badger.DB
	store  *history.Store
	client *statusapi.Client
	poller *poller.Poller
}

// loadConfig merges, lowest to highest precedence: config file,
// MIGWATCH_* environment variables, command-line flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("MIGWATCH")
	v.AutomaticEnv()
	if url := v.GetString("STATUS_URL"); url != "" {
		cfg.StatusURL = url
	}
	if iv := v.GetString("POLL_INTERVAL"); iv != "" {
		d, err := time.ParseDuration(iv)
		if err != nil {
			return config.Config{}, fmt.Errorf("MIGWATCH_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = config.Duration(d)
	}

	if statusURL != "" {
		cfg.StatusURL = statusURL
	}
	if pollInterval != "" {
		d, err := time.ParseDuration(pollInterval)
		if err != nil {
			return config.Config{}, fmt.Errorf("--interval: %w", err)
		}
		cfg.PollInterval = config.Duration(d)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp builds the full component stack. quiet suppresses stderr
// logging for the TUI, which owns the terminal.
func newApp(quiet bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "migwatch",
		Quiet:   quiet,
	})

	dbCfg := badger.DefaultConfig(config.ExpandPath(cfg.DataDir))
	dbCfg.Logger = log.Slog()
	db, err := badger.Open(dbCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := history.NewStore(db, log.With("component", "history"))
	client := statusapi.NewClient(cfg.StatusURL,
		statusapi.WithTimeout(cfg.HTTPTimeout.Std()))
	p := poller.New(client, store, cfg.PollInterval.Std(),
		log.With("component", "poller"))

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		client: client,
		poller: p,
	}, nil
}

// close releases the database and log file.
func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("close history database", "error", err)
	}
	a.log.Close()
}
