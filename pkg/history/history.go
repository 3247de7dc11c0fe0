// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package history tracks the observed progress of the remote migration.
//
// A History is the ordered, append-only sequence of (timestamp, percent)
// samples recorded from successful polls during the current migration
// run. Two invariants hold within a run: percent never decreases across
// consecutive samples, and no two consecutive samples carry the same
// percent (duplicates are suppressed rather than recorded).
//
// A run boundary is inferred, not reported: when a poll observes a
// percent strictly below the last recorded one, the migration is assumed
// to have been restarted and the history collapses to just the new
// sample. Mixing samples from two runs would poison the rate estimate.
// The remote system never legitimately reports a decrease within one
// run, but a transient correction would trigger a false reset; Advance
// reports resets so callers can log them.
package history

import (
	"time"
)

// Observation is a single progress sample. Immutable once recorded.
type Observation struct {
	At      time.Time `json:"at"`
	Percent float64   `json:"percent"`
}

// History is the ordered set of observations for the current run,
// oldest first.
type History []Observation

// Outcome describes what Advance did with an observation.
type Outcome int

const (
	// Appended means the observation extended the history.
	Appended Outcome = iota

	// Duplicate means the percent matched the last sample and the
	// history is unchanged. No persistence write is needed.
	Duplicate

	// Reset means a run boundary was detected and the history now
	// contains only the new observation.
	Reset
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Duplicate:
		return "duplicate"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Advance returns the history that results from observing o.
//
// This is a pure function of (prior history, observation); persistence
// is the Store's concern. The returned slice shares backing storage
// with h on append, so callers must treat the input as consumed.
func (h History) Advance(o Observation) (History, Outcome) {
	if len(h) == 0 {
		return History{o}, Appended
	}

	last := h[len(h)-1]
	switch {
	case o.Percent < last.Percent:
		// Percent cannot decrease within one run; this is a restart.
		return History{o}, Reset
	case o.Percent == last.Percent:
		return h, Duplicate
	default:
		return append(h, o), Appended
	}
}

// First returns the oldest observation. ok is false for an empty history.
func (h History) First() (Observation, bool) {
	if len(h) == 0 {
		return Observation{}, false
	}
	return h[0], true
}

// Last returns the newest observation. ok is false for an empty history.
func (h History) Last() (Observation, bool) {
	if len(h) == 0 {
		return Observation{}, false
	}
	return h[len(h)-1], true
}

// Clone returns a defensive copy for read-only consumers.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
