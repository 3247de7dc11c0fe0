// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/halcyonlabs/migwatch/pkg/server"
)

// runServe runs the tracker headless: the poller in the background, the
// HTTP API in the foreground, both until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApp(false)
	if err != nil {
		return err
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.poller.Run(ctx)

	srv := server.New(app.poller, app.log.With("component", "server"))
	app.log.Info("serving",
		"addr", app.cfg.Serve.Addr,
		"status_url", app.cfg.StatusURL,
		"poll_interval", app.cfg.PollInterval.Std().String())
	return srv.Run(ctx, app.cfg.Serve.Addr)
}
