// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
)

// CategoryIcon maps a remote category state string to a display icon.
//
// The endpoint's state vocabulary is not formally specified, so the
// mapping is keyed on substrings seen in the wild ("complete",
// "in_progress", "pending", "failed"); anything unrecognized renders
// as pending rather than hiding the row.
func CategoryIcon(state string) string {
	s := strings.ToLower(strings.TrimSpace(state))
	switch {
	case strings.Contains(s, "complete"), strings.Contains(s, "done"), strings.Contains(s, "finished"):
		return "✓"
	case strings.Contains(s, "progress"), strings.Contains(s, "running"), strings.Contains(s, "started"):
		return "◐"
	case strings.Contains(s, "fail"), strings.Contains(s, "error"):
		return "✗"
	default:
		return "○"
	}
}

// RenderCategoryIcon returns the icon with state-appropriate styling,
// or the bare icon when styled is false.
func RenderCategoryIcon(state string, styled bool) string {
	icon := CategoryIcon(state)
	if !styled {
		return icon
	}
	switch icon {
	case "✓":
		return Styles.Success.Render(icon)
	case "◐":
		return Styles.Warning.Render(icon)
	case "✗":
		return Styles.Error.Render(icon)
	default:
		return Styles.Muted.Render(icon)
	}
}

// ProgressBar renders a fixed-width bar for a percentage in [0, 100].
func ProgressBar(percent float64, width int, styled bool) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled)
	rest := strings.Repeat("░", width-filled)
	if !styled {
		return bar + rest
	}
	return Styles.BarFilled.Render(bar) + Styles.BarEmpty.Render(rest)
}
