// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal styling shared by the watch TUI and the
// one-shot CLI output.
package ux

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// migwatch palette - dusk violets with signal colors for state
var (
	ColorPrimary   = lipgloss.Color("#8B7EC8") // violet - brand, headers
	ColorAccent    = lipgloss.Color("#B8A9E8") // light violet - highlights
	ColorProgress  = lipgloss.Color("#5FB0A5") // sea green - progress bar fill
	ColorDim       = lipgloss.Color("#5C5873") // muted violet-grey
	ColorSuccess   = lipgloss.Color("#6FCF97") // green - complete
	ColorWarning   = lipgloss.Color("#F2C94C") // amber - in progress / stalled
	ColorError     = lipgloss.Color("#EB5757") // red - failed states
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Value    lipgloss.Style

	Box lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	Subtitle: lipgloss.NewStyle().Foreground(ColorAccent),
	Bold:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(ColorDim),
	Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Foreground(ColorError),
	Value:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1),

	BarFilled: lipgloss.NewStyle().Foreground(ColorProgress),
	BarEmpty:  lipgloss.NewStyle().Foreground(ColorDim),
}

// IsTerminal reports whether stdout is a TTY. One-shot commands print
// plain text when piped.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
