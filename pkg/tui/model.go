// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tui implements the live migration watch screen.
//
// The model subscribes to the poller's snapshot stream and re-renders on
// every update; rendering is a pure function of the latest snapshot.
// TUI state is single-threaded inside the bubbletea event loop.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/halcyonlabs/migwatch/pkg/poller"
	"github.com/halcyonlabs/migwatch/pkg/ux"
)

// =============================================================================
// Messages
// =============================================================================

// snapshotMsg delivers a poller snapshot into the event loop.
type snapshotMsg poller.Snapshot

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for `migwatch watch`.
type Model struct {
	poller *poller.Poller
	ctx    context.Context

	snap    poller.Snapshot
	spin    spinner.Model
	polling bool
	width   int
}

// NewModel creates the watch model around a running poller. ctx bounds
// manual refreshes; cancelling it abandons any in-flight poll without
// touching history.
func NewModel(ctx context.Context, p *poller.Poller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ux.Styles.Subtitle

	return Model{
		poller:  p,
		ctx:     ctx,
		snap:    p.Last(),
		spin:    sp,
		polling: true, // the poller fires immediately on Run
		width:   80,
	}
}

// Init starts the spinner and the snapshot subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForSnapshot())
}

// waitForSnapshot blocks on the poller's update stream.
func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.poller.Updates()
	return func() tea.Msg {
		return snapshotMsg(<-updates)
	}
}

// Update handles key presses, window sizing, spinner ticks and
// incoming snapshots.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.polling {
				m.polling = true
				m.poller.Refresh(m.ctx)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = poller.Snapshot(msg)
		m.polling = false
		return m, m.waitForSnapshot()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current snapshot.
func (m Model) View() string {
	return renderSnapshot(m.snap, renderOpts{
		width:    m.width,
		styled:   true,
		polling:  m.polling,
		spinner:  m.spin.View(),
		showKeys: true,
	})
}
