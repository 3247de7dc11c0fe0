// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/halcyonlabs/migwatch/pkg/tui"
)

// runWatch opens the live dashboard. The poller runs in the background
// and pushes snapshots into the bubbletea event loop; quitting the TUI
// cancels the poll loop.
func runWatch(cmd *cobra.Command, args []string) error {
	// Quiet: the TUI owns the terminal, stderr logging would tear it.
	app, err := newApp(true)
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go app.poller.Run(ctx)

	program := tea.NewProgram(tui.NewModel(ctx, app.poller), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch screen failed: %w", err)
	}
	return nil
}
