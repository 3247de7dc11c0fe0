// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/halcyonlabs/migwatch/pkg/estimate"
	"github.com/halcyonlabs/migwatch/pkg/poller"
	"github.com/halcyonlabs/migwatch/pkg/ux"
)

type renderOpts struct {
	width    int
	styled   bool
	polling  bool
	spinner  string
	showKeys bool
}

// RenderPlain renders a snapshot as unstyled text for one-shot output
// and for piping.
func RenderPlain(snap poller.Snapshot) string {
	return renderSnapshot(snap, renderOpts{width: 80, styled: ux.IsTerminal()})
}

// renderSnapshot is the single render path for both the live TUI and
// one-shot output.
func renderSnapshot(snap poller.Snapshot, opts renderOpts) string {
	var b strings.Builder

	title := "Migration Status"
	if opts.styled {
		title = ux.Styles.Title.Render(title)
	}
	b.WriteString(title)
	if opts.polling && opts.spinner != "" {
		b.WriteString("  " + opts.spinner + " polling")
	}
	b.WriteString("\n\n")

	if snap.Status == nil {
		if snap.Err != nil {
			b.WriteString(errLine(snap.Err, opts.styled))
		} else {
			b.WriteString(mutedLine("Waiting for first poll...", opts.styled))
		}
		b.WriteString(keysFooter(opts))
		return b.String()
	}

	// Percent line with progress bar.
	barWidth := opts.width - 12
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 10 {
		barWidth = 10
	}
	percent := snap.Status.Percent()
	b.WriteString(fmt.Sprintf("%s %5.1f%%\n\n",
		ux.ProgressBar(percent, barWidth, opts.styled), percent))

	// Per-category status.
	for _, cat := range snap.Status.Categories() {
		icon := ux.RenderCategoryIcon(cat.State, opts.styled)
		state := cat.State
		if state == "" {
			state = "unknown"
		}
		b.WriteString(fmt.Sprintf("  %s %-10s %s\n", icon, cat.Name, state))
	}
	b.WriteString("\n")

	// Schedule block.
	details := snap.Status.MigrationData.Details
	writeInstant(&b, "Scheduled", details.Scheduled(), opts.styled)
	writeInstant(&b, "Started", details.Started(), opts.styled)
	writeInstant(&b, "Finished", details.Finished(), opts.styled)
	b.WriteString("\n")

	// Estimate line.
	b.WriteString(estimateLine(snap, opts.styled))
	b.WriteString("\n")

	if snap.Err != nil {
		b.WriteString(errLine(snap.Err, opts.styled))
	}

	b.WriteString(keysFooter(opts))
	return b.String()
}

// estimateLine renders the projection, or the reason there is none.
func estimateLine(snap poller.Snapshot, styled bool) string {
	if !snap.HasEstimate {
		n := len(snap.History)
		switch {
		case n < 2:
			return mutedLine("Estimated completion: gathering samples...", styled)
		default:
			return mutedLine("Estimated completion: no progress observed", styled)
		}
	}

	remaining := estimate.FormatDuration(snap.Estimate.Remaining)
	when := snap.Estimate.Completion.Local().Format("Mon Jan 2 15:04")
	line := fmt.Sprintf("Estimated completion: %s (%s remaining)", when, remaining)
	if styled {
		return ux.Styles.Value.Render(line) + "\n"
	}
	return line + "\n"
}

func writeInstant(b *strings.Builder, label string, at time.Time, styled bool) {
	value := "—"
	if !at.IsZero() {
		value = at.Local().Format("2006-01-02 15:04")
	}
	line := fmt.Sprintf("  %-10s %s\n", label, value)
	if styled && value == "—" {
		line = ux.Styles.Muted.Render(strings.TrimRight(line, "\n")) + "\n"
	}
	b.WriteString(line)
}

func errLine(err error, styled bool) string {
	line := "Last poll failed: " + err.Error() + "\n"
	if styled {
		return ux.Styles.Error.Render(strings.TrimRight(line, "\n")) + "\n"
	}
	return line
}

func mutedLine(s string, styled bool) string {
	if styled {
		return ux.Styles.Muted.Render(s) + "\n"
	}
	return s + "\n"
}

func keysFooter(opts renderOpts) string {
	if !opts.showKeys {
		return ""
	}
	footer := "\nr refresh • q quit"
	if opts.styled {
		return ux.Styles.Muted.Render(footer)
	}
	return footer
}
