// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package estimate projects a migration completion time from the
// retained observation history.
//
// The model is deliberately simple: a two-point linear rate over the
// endpoints of the history, not a regression over intermediate samples.
// Endpoints make the projection robust to a stale or duplicated middle
// sample at the cost of sensitivity to noise in either endpoint.
//
// Absence of an estimate is an expected state, not an error: a fresh
// install, a single sample, or a stalled migration all project nothing.
package estimate

import (
	"fmt"
	"strings"
	"time"

	"github.com/halcyonlabs/migwatch/pkg/history"
)

// Estimate is the derived projection for the current run. It is always
// recomputed from history, never stored, so it cannot drift out of sync
// with the samples it came from.
type Estimate struct {
	// Remaining is the projected time left until 100%.
	Remaining time.Duration `json:"remaining"`

	// Completion is the projected completion instant, anchored at the
	// newest observation's timestamp.
	Completion time.Time `json:"completion"`

	// Rate is the observed cost of one percentage point.
	Rate time.Duration `json:"rate_per_percent"`
}

// Project computes the completion estimate from h's endpoints.
//
// ok is false when no estimate exists: fewer than two samples, a
// non-positive percent delta, or a non-positive time delta. Project
// never panics and never returns an error.
func Project(h history.History) (Estimate, bool) {
	if len(h) < 2 {
		return Estimate{}, false
	}

	first := h[0]
	last := h[len(h)-1]

	percentDelta := last.Percent - first.Percent
	timeDelta := last.At.Sub(first.At)
	if percentDelta <= 0 || timeDelta <= 0 {
		return Estimate{}, false
	}

	rate := time.Duration(float64(timeDelta) / percentDelta)
	remaining := time.Duration((100 - last.Percent) * float64(rate))

	return Estimate{
		Remaining:  remaining,
		Completion: last.At.Add(remaining),
		Rate:       rate,
	}, true
}

// FormatDuration renders a duration as a compact human string using
// days, hours and minutes, omitting zero components.
//
//	-1s        -> "Unknown"
//	30s        -> "< 1m"
//	61s        -> "1m"
//	25h        -> "1d 1h"
//	49h 5m     -> "2d 1h 5m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "Unknown"
	}

	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	if days == 0 && hours == 0 && minutes == 0 {
		return "< 1m"
	}

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}
