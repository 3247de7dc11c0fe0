// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package estimate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/migwatch/pkg/history"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func obs(offset time.Duration, percent float64) history.Observation {
	return history.Observation{At: t0.Add(offset), Percent: percent}
}

// =============================================================================
// Project Tests
// =============================================================================

func TestProject_ReferenceCase(t *testing.T) {
	// (t0, 10%) -> (t0+600s, 20%): 60s per point, 80 points left.
	h := history.History{obs(0, 10), obs(600*time.Second, 20)}

	est, ok := Project(h)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, est.Rate)
	assert.Equal(t, 4800*time.Second, est.Remaining)
	assert.True(t, est.Completion.Equal(t0.Add(600*time.Second).Add(4800*time.Second)))
}

func TestProject_EmptyHistory(t *testing.T) {
	_, ok := Project(nil)
	assert.False(t, ok)
}

func TestProject_SingleSample(t *testing.T) {
	_, ok := Project(history.History{obs(0, 50)})
	assert.False(t, ok)
}

func TestProject_ZeroPercentDelta(t *testing.T) {
	h := history.History{obs(0, 30), obs(time.Hour, 30)}
	_, ok := Project(h)
	assert.False(t, ok)
}

func TestProject_NegativePercentDelta(t *testing.T) {
	// Record never produces this within a run, but Project must not
	// extrapolate from it either.
	h := history.History{obs(0, 60), obs(time.Hour, 40)}
	_, ok := Project(h)
	assert.False(t, ok)
}

func TestProject_ZeroTimeDelta(t *testing.T) {
	h := history.History{obs(0, 10), obs(0, 20)}
	_, ok := Project(h)
	assert.False(t, ok)
}

func TestProject_UsesEndpointsOnly(t *testing.T) {
	// A wildly off middle sample must not affect the projection.
	clean := history.History{obs(0, 10), obs(10*time.Minute, 20)}
	noisy := history.History{obs(0, 10), obs(time.Minute, 19.99), obs(10*time.Minute, 20)}

	wantEst, ok := Project(clean)
	require.True(t, ok)
	gotEst, ok := Project(noisy)
	require.True(t, ok)
	assert.Equal(t, wantEst, gotEst)
}

func TestProject_NearlyComplete(t *testing.T) {
	h := history.History{obs(0, 98), obs(time.Minute, 99)}
	est, ok := Project(h)
	require.True(t, ok)
	assert.Equal(t, time.Minute, est.Remaining)
}

func TestProject_AtHundredPercent(t *testing.T) {
	h := history.History{obs(0, 90), obs(time.Minute, 100)}
	est, ok := Project(h)
	require.True(t, ok)
	// Done: zero remaining is a real estimate, distinct from "none".
	assert.Equal(t, time.Duration(0), est.Remaining)
	assert.True(t, est.Completion.Equal(t0.Add(time.Minute)))
}

// =============================================================================
// FormatDuration Tests
// =============================================================================

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"negative", -time.Second, "Unknown"},
		{"zero", 0, "< 1m"},
		{"sub-minute", 59 * time.Second, "< 1m"},
		{"one minute boundary", 61 * time.Second, "1m"},
		{"ninety seconds", 90 * time.Second, "1m"},
		{"hours and minutes", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"exact hour omits minutes", 3 * time.Hour, "3h"},
		{"about a day", 25 * time.Hour, "1d 1h"},
		{"day with minutes only", 24*time.Hour + 5*time.Minute, "1d 5m"},
		{"all components", 49*time.Hour + 5*time.Minute, "2d 1h 5m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.d))
		})
	}
}

func TestFormatDuration_MillisecondBoundaries(t *testing.T) {
	// Boundaries called out in the tracker's display rules.
	assert.Equal(t, "< 1m", FormatDuration(0))
	assert.Equal(t, "1m", FormatDuration(90000*time.Millisecond))
	assert.Equal(t, "1d 1h", FormatDuration(90000000*time.Millisecond))
	assert.Equal(t, "Unknown", FormatDuration(-5*time.Millisecond))
}
