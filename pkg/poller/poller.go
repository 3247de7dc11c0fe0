// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package poller drives the fetch/record cycle against the status
// endpoint and publishes snapshots to the display surfaces.
//
// Ordering guarantee: at most one fetch/record cycle is ever in flight.
// Timer ticks and manual refreshes that arrive while a poll is running
// join the in-flight poll via singleflight instead of starting another,
// so history mutations are strictly sequential. History is only touched
// after a fetch fully resolves; cancelling an in-flight poll cannot
// corrupt it.
package poller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/halcyonlabs/migwatch/pkg/estimate"
	"github.com/halcyonlabs/migwatch/pkg/history"
	"github.com/halcyonlabs/migwatch/pkg/logging"
	"github.com/halcyonlabs/migwatch/pkg/statusapi"
)

// Fetcher fetches a status document. *statusapi.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (*statusapi.Status, error)
}

// Recorder folds observations into the retained history.
// *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, percent float64, at time.Time) (history.History, history.Outcome, error)
	Snapshot() history.History
}

// Snapshot is one immutable view of the world, published after every
// poll. Display surfaces render it as a pure function; they never reach
// into the store themselves.
type Snapshot struct {
	// Status is the last successfully fetched document. Carried forward
	// on fetch errors so stale-but-valid data stays on screen.
	Status *statusapi.Status

	// History is the retained observation sequence (defensive copy).
	History history.History

	// Estimate is the completion projection; valid only when
	// HasEstimate is true.
	Estimate    estimate.Estimate
	HasEstimate bool

	// Err is the failure from the most recent poll, nil on success.
	Err error

	// FetchedAt is when the most recent successful fetch completed,
	// by the local clock.
	FetchedAt time.Time
}

// Poller owns the poll loop.
//
// Thread Safety: all exported methods are safe for concurrent use.
type Poller struct {
	fetcher  Fetcher
	recorder Recorder
	interval time.Duration
	log      *logging.Logger

	group singleflight.Group

	mu   sync.Mutex
	last Snapshot

	updates chan Snapshot
}

// New creates a Poller. interval must be positive.
func New(fetcher Fetcher, recorder Recorder, interval time.Duration, log *logging.Logger) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		recorder: recorder,
		interval: interval,
		log:      log,
		updates:  make(chan Snapshot, 8),
	}
	// Seed the snapshot from whatever history survived the restart so
	// the first render has data before the first poll lands.
	hist := recorder.Snapshot()
	est, ok := estimate.Project(hist)
	p.last = Snapshot{History: hist, Estimate: est, HasEstimate: ok}
	historyLengthGauge.Set(float64(len(hist)))
	return p
}

// Run polls immediately, then on every tick, until ctx is cancelled.
// Blocks; run it in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch/record cycle and returns the resulting
// snapshot. Concurrent callers collapse onto the same in-flight poll
// and all receive its snapshot.
func (p *Poller) Poll(ctx context.Context) Snapshot {
	v, _, _ := p.group.Do("poll", func() (any, error) {
		return p.poll(ctx), nil
	})
	return v.(Snapshot)
}

// Refresh triggers an asynchronous poll. Used by the TUI's manual
// refresh key; the result arrives through Updates.
func (p *Poller) Refresh(ctx context.Context) {
	go p.Poll(ctx)
}

// Last returns the most recent snapshot.
func (p *Poller) Last() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Updates returns the channel snapshots are published on. Slow
// consumers miss intermediate snapshots rather than blocking the loop;
// Last always has the current one.
func (p *Poller) Updates() <-chan Snapshot {
	return p.updates
}

func (p *Poller) poll(ctx context.Context) Snapshot {
	start := time.Now()

	status, err := p.fetcher.Fetch(ctx)
	if err != nil {
		pollsTotal.WithLabelValues("error").Inc()
		p.log.Warn("status poll failed", "error", err)
		return p.publishError(err)
	}

	at, err := status.ObservedAt()
	if err != nil {
		pollsTotal.WithLabelValues("error").Inc()
		p.log.Warn("status document has unparseable last_updated",
			"last_updated", status.LastUpdated, "error", err)
		return p.publishError(err)
	}

	hist, outcome, err := p.recorder.Record(ctx, status.Percent(), at)
	if err != nil {
		// In-memory history advanced; only the disk write failed.
		p.log.Error("history write failed", "error", err)
	}

	pollsTotal.WithLabelValues(outcome.String()).Inc()
	pollDurationHistogram.Observe(time.Since(start).Seconds())
	percentGauge.Set(status.Percent())
	historyLengthGauge.Set(float64(len(hist)))

	if outcome == history.Reset {
		resetsTotal.Inc()
		p.log.Warn("percent decreased, history reset for new run",
			"percent", status.Percent())
	} else {
		p.log.Debug("poll recorded",
			"percent", status.Percent(), "outcome", outcome.String(),
			"observations", len(hist))
	}

	est, ok := estimate.Project(hist)

	p.mu.Lock()
	snap := Snapshot{
		Status:      status,
		History:     hist,
		Estimate:    est,
		HasEstimate: ok,
		FetchedAt:   time.Now(),
	}
	p.last = snap
	p.mu.Unlock()

	p.publish(snap)
	return snap
}

// publishError keeps the previous status and history visible and only
// replaces the error field.
func (p *Poller) publishError(err error) Snapshot {
	p.mu.Lock()
	snap := p.last
	snap.Err = err
	p.last = snap
	p.mu.Unlock()

	p.publish(snap)
	return snap
}

func (p *Poller) publish(snap Snapshot) {
	select {
	case p.updates <- snap:
	default:
		// Drop rather than block the poll loop.
	}
}
