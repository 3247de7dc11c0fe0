// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package statusapi

import (
	"time"
)

// CategoryStatus carries the per-category state strings reported by the
// migration endpoint. The values are free-form display data; migwatch
// passes them through and only normalizes them for icon selection.
type CategoryStatus struct {
	Migration string `json:"migration"`
	Users     string `json:"users"`
	Files     string `json:"files"`
	DMs       string `json:"dms"`
	MPDMs     string `json:"mpdms"`
}

// MigrationDetails holds the scheduled/started/finished instants as unix
// seconds. Zero or absent values mean the event has not happened.
type MigrationDetails struct {
	DateScheduled int64 `json:"date_scheduled"`
	DateStarted   int64 `json:"date_started"`
	DateFinished  int64 `json:"date_finished"`
}

// Scheduled returns the scheduled instant, or the zero time if unset.
func (d MigrationDetails) Scheduled() time.Time { return unixOrZero(d.DateScheduled) }

// Started returns the start instant, or the zero time if unset.
func (d MigrationDetails) Started() time.Time { return unixOrZero(d.DateStarted) }

// Finished returns the finish instant, or the zero time if unset.
func (d MigrationDetails) Finished() time.Time { return unixOrZero(d.DateFinished) }

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// MigrationData is the payload under "migration_data".
type MigrationData struct {
	PercentCompleted float64          `json:"percent_completed"`
	Status           CategoryStatus   `json:"status"`
	Details          MigrationDetails `json:"migration_details"`
}

// Status is the full response from the migration status endpoint.
type Status struct {
	MigrationData MigrationData `json:"migration_data"`
	LastUpdated   string        `json:"last_updated"`
}

// Percent returns the completion percentage clamped to [0, 100]. The
// raw value stays available through MigrationData for display.
func (s *Status) Percent() float64 {
	p := s.MigrationData.PercentCompleted
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ObservedAt parses the server's last_updated timestamp (ISO-8601).
// This is the instant recorded into history; server and client clocks
// are not reconciled.
func (s *Status) ObservedAt() (time.Time, error) {
	return time.Parse(time.RFC3339, s.LastUpdated)
}

// Categories returns the category states in display order as
// (name, state) pairs.
func (s *Status) Categories() []Category {
	st := s.MigrationData.Status
	return []Category{
		{Name: "Migration", State: st.Migration},
		{Name: "Users", State: st.Users},
		{Name: "Files", State: st.Files},
		{Name: "DMs", State: st.DMs},
		{Name: "Group DMs", State: st.MPDMs},
	}
}

// Category is one named migration category and its reported state.
type Category struct {
	Name  string
	State string
}
