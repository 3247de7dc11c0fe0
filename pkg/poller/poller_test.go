// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/migwatch/pkg/history"
	"github.com/halcyonlabs/migwatch/pkg/logging"
	"github.com/halcyonlabs/migwatch/pkg/statusapi"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeFetcher serves a scripted sequence of statuses and errors.
type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   atomic.Int32
	block   chan struct{} // when non-nil, Fetch waits on it
}

type fetchResult struct {
	status *statusapi.Status
	err    error
}

func statusAt(percent float64, at time.Time) *statusapi.Status {
	return &statusapi.Status{
		MigrationData: statusapi.MigrationData{PercentCompleted: percent},
		LastUpdated:   at.Format(time.RFC3339),
	}
}

func (f *fakeFetcher) push(percent float64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fetchResult{status: statusAt(percent, at)})
}

func (f *fakeFetcher) pushErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fetchResult{err: err})
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*statusapi.Status, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return nil, errors.New("fetch script exhausted")
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.status, r.err
}

// memRecorder is an in-memory Recorder without badger.
type memRecorder struct {
	mu   sync.Mutex
	hist history.History
	errs error // returned from Record when set
}

func (m *memRecorder) Record(ctx context.Context, percent float64, at time.Time) (history.History, history.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var outcome history.Outcome
	m.hist, outcome = m.hist.Advance(history.Observation{At: at, Percent: percent})
	return m.hist.Clone(), outcome, m.errs
}

func (m *memRecorder) Snapshot() history.History {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hist.Clone()
}

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Quiet: true})
}

// =============================================================================
// Poll Tests
// =============================================================================

func TestPoll_RecordsAndEstimates(t *testing.T) {
	f := &fakeFetcher{}
	f.push(10, t0)
	f.push(20, t0.Add(10*time.Minute))
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	snap := p.Poll(context.Background())
	require.NoError(t, snap.Err)
	assert.Len(t, snap.History, 1)
	assert.False(t, snap.HasEstimate, "single sample cannot project")

	snap = p.Poll(context.Background())
	require.NoError(t, snap.Err)
	assert.Len(t, snap.History, 2)
	require.True(t, snap.HasEstimate)
	assert.Equal(t, 80*time.Minute, snap.Estimate.Remaining)
}

func TestPoll_FetchErrorKeepsPriorSnapshot(t *testing.T) {
	f := &fakeFetcher{}
	f.push(10, t0)
	wantErr := errors.New("network down")
	f.pushErr(wantErr)
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	good := p.Poll(context.Background())
	require.NoError(t, good.Err)

	bad := p.Poll(context.Background())
	assert.ErrorIs(t, bad.Err, wantErr)
	// Stale data stays available for display.
	assert.Len(t, bad.History, 1)
	require.NotNil(t, bad.Status)
	assert.Equal(t, 10.0, bad.Status.Percent())
}

func TestPoll_ErrorThenRecoveryClearsErr(t *testing.T) {
	f := &fakeFetcher{}
	f.pushErr(errors.New("cold start"))
	f.push(15, t0)
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	snap := p.Poll(context.Background())
	require.Error(t, snap.Err)

	snap = p.Poll(context.Background())
	require.NoError(t, snap.Err)
	assert.Len(t, snap.History, 1)
}

func TestPoll_BadTimestampIsError(t *testing.T) {
	f := &fakeFetcher{}
	f.mu.Lock()
	f.results = append(f.results, fetchResult{status: &statusapi.Status{
		MigrationData: statusapi.MigrationData{PercentCompleted: 10},
		LastUpdated:   "not-a-timestamp",
	}})
	f.mu.Unlock()
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	snap := p.Poll(context.Background())
	require.Error(t, snap.Err)
	assert.Empty(t, snap.History, "nothing recorded from an undecodable poll")
}

func TestPoll_PersistFailureStillAdvances(t *testing.T) {
	f := &fakeFetcher{}
	f.push(10, t0)
	rec := &memRecorder{errs: errors.New("disk full")}
	p := New(f, rec, time.Hour, quietLogger())

	snap := p.Poll(context.Background())
	// Write errors are logged, not surfaced as poll failures: the
	// in-memory history stays authoritative.
	require.NoError(t, snap.Err)
	assert.Len(t, snap.History, 1)
}

func TestPoll_ConcurrentCallsCollapse(t *testing.T) {
	f := &fakeFetcher{block: make(chan struct{})}
	f.push(10, t0)
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i] = p.Poll(context.Background())
		}(i)
	}

	// Let the callers pile onto the blocked fetch, then release it.
	time.Sleep(50 * time.Millisecond)
	close(f.block)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load(), "overlapping polls must share one fetch")
	for i, snap := range snaps {
		assert.NoError(t, snap.Err, "caller %d", i)
		assert.Len(t, snap.History, 1, "caller %d", i)
	}
}

// =============================================================================
// Seed / Snapshot Tests
// =============================================================================

func TestNew_SeedsFromSurvivingHistory(t *testing.T) {
	rec := &memRecorder{hist: history.History{
		{At: t0, Percent: 10},
		{At: t0.Add(10 * time.Minute), Percent: 20},
	}}
	p := New(&fakeFetcher{}, rec, time.Hour, quietLogger())

	snap := p.Last()
	assert.Len(t, snap.History, 2)
	require.True(t, snap.HasEstimate)
	assert.Equal(t, 80*time.Minute, snap.Estimate.Remaining)
	assert.Nil(t, snap.Status, "no document fetched yet")
}

func TestUpdates_ReceivesPublishedSnapshot(t *testing.T) {
	f := &fakeFetcher{}
	f.push(33, t0)
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	p.Poll(context.Background())

	select {
	case snap := <-p.Updates():
		require.NotNil(t, snap.Status)
		assert.Equal(t, 33.0, snap.Status.Percent())
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	f := &fakeFetcher{}
	for i := 0; i < 100; i++ {
		f.push(float64(i), t0.Add(time.Duration(i)*time.Minute))
	}
	p := New(f, &memRecorder{}, 10*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.Greater(t, f.calls.Load(), int32(1), "ticker should have fired")
}

func TestPoll_ResetSequence(t *testing.T) {
	f := &fakeFetcher{}
	f.push(50, t0)
	f.push(60, t0.Add(time.Minute))
	f.push(3, t0.Add(2*time.Minute)) // restart
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	ctx := context.Background()
	p.Poll(ctx)
	p.Poll(ctx)
	snap := p.Poll(ctx)

	require.NoError(t, snap.Err)
	require.Len(t, snap.History, 1)
	assert.Equal(t, 3.0, snap.History[0].Percent)
	assert.False(t, snap.HasEstimate)
}

func ExamplePoller_Poll() {
	f := &fakeFetcher{}
	f.push(10, t0)
	f.push(20, t0.Add(10*time.Minute))
	p := New(f, &memRecorder{}, time.Hour, quietLogger())

	ctx := context.Background()
	p.Poll(ctx)
	snap := p.Poll(ctx)
	fmt.Println(len(snap.History), snap.Estimate.Remaining)
	// Output: 2 1h20m0s
}
