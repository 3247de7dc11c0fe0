// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "migwatch_polls_total",
		Help: "Total polls of the status endpoint by outcome",
	}, []string{"outcome"})

	pollDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "migwatch_poll_duration_seconds",
		Help:    "Time to fetch and record one status poll",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	resetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "migwatch_run_resets_total",
		Help: "Migration run boundaries detected from a percent decrease",
	})

	percentGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "migwatch_migration_percent",
		Help: "Last observed migration completion percentage",
	})

	historyLengthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "migwatch_history_observations",
		Help: "Observations retained for the current migration run",
	})
)
