// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath   string
	statusURL    string // CLI override for status_url
	pollInterval string // CLI override for poll_interval, e.g. "90s"
	logLevel     string // CLI override for log.level
	jsonOutput   bool

	rootCmd = &cobra.Command{
		Use:   "migwatch",
		Short: "Track a long-running migration and estimate its completion",
		Long: `migwatch polls a public migration status endpoint, keeps a local
history of observed progress, and projects when the migration will
finish from the rate it has seen so far.`,
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Live migration dashboard in the terminal",
		Long: `Opens a full-screen view that refreshes on every poll.
Press r to poll immediately, q to quit.`,
		RunE: runWatch,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Poll once and print the current migration state",
		RunE:  runStatus,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print the observations retained for the current run",
		RunE:  runHistory,
	}

	resetYes bool
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Discard the locally retained progress history",
		Long: `Clears the observation history. The next polls rebuild it; the
completion estimate is unavailable until two samples have been seen.`,
		RunE: runReset,
	}

	serveAddr string
	serveCmd  = &cobra.Command{
		Use:   "serve",
		Short: "Run headless: poll in the background and expose an HTTP API",
		Long: `Serves the current status, history and estimate as JSON under
/api/v1, plus Prometheus metrics under /metrics.`,
		RunE: runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.migwatch/migwatch.yaml)")
	rootCmd.PersistentFlags().StringVar(&statusURL, "url", "",
		"Status endpoint URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pollInterval, "interval", "",
		"Poll interval, e.g. 90s or 2m (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")

	statusCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON for scripting")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON for scripting")

	resetCmd.Flags().BoolVar(&resetYes, "yes", false,
		"Skip the confirmation prompt")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address (overrides config)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}
