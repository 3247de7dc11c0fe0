// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/halcyonlabs/migwatch/pkg/logging"
	"github.com/halcyonlabs/migwatch/pkg/storage/badger"
)

// historyKey is the single key holding the serialized history. The v1
// suffix leaves room for a format change without a migration step:
// an old key is simply abandoned and reads as empty.
const historyKey = "migwatch/history/v1"

// Store owns the in-memory history and mirrors every mutation to
// BadgerDB. The persisted copy is a cache of the in-memory state, never
// the other way around: a failed write is reported but the in-memory
// history remains authoritative for the life of the process.
//
// Thread Safety: all methods are safe for concurrent use. Record is a
// single-writer critical section; the poller additionally serializes
// polls, so in practice writes never contend.
type Store struct {
	db  *badger.DB
	log *logging.Logger

	mu   sync.Mutex
	hist History
}

// NewStore creates a Store over an opened database and loads whatever
// history it holds. A missing or corrupt value loads as an empty
// history: this path is a cache, not a source of truth, so it degrades
// instead of failing.
func NewStore(db *badger.DB, log *logging.Logger) *Store {
	s := &Store{db: db, log: log}
	s.load()
	return s
}

func (s *Store) load() {
	var raw []byte
	err := s.db.WithReadTxn(context.Background(), func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(historyKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			s.log.Warn("could not read persisted history, starting empty", "error", err)
		}
		return
	}

	var hist History
	if err := json.Unmarshal(raw, &hist); err != nil {
		s.log.Warn("persisted history is corrupt, starting empty", "error", err)
		return
	}

	s.hist = hist
	s.log.Debug("loaded history", "observations", len(hist))
}

// Record folds a new progress observation into the history and persists
// the result.
//
// Duplicate percents are a no-op and skip the write entirely, so a
// stalled migration does not churn the value log on every poll. A
// percent below the last recorded one truncates the history to the new
// observation (run restart).
//
// The returned history is a snapshot copy. A persistence error is
// returned for logging, but the in-memory update has already taken
// effect and stands.
func (s *Store) Record(ctx context.Context, percent float64, at time.Time) (History, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome := s.hist.Advance(Observation{At: at, Percent: percent})
	s.hist = next

	if outcome == Duplicate {
		return s.hist.Clone(), outcome, nil
	}

	if err := s.persist(ctx); err != nil {
		return s.hist.Clone(), outcome, fmt.Errorf("persist history: %w", err)
	}
	return s.hist.Clone(), outcome, nil
}

// persist writes the full serialized history under the single key.
// Caller holds s.mu.
func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.hist)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(historyKey), raw)
	})
}

// Snapshot returns a defensive copy of the current history.
func (s *Store) Snapshot() History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Clone()
}

// Len returns the number of retained observations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hist)
}

// Reset discards the history in memory and on disk.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hist = nil
	err := s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(historyKey))
	})
	if err != nil {
		return fmt.Errorf("delete persisted history: %w", err)
	}
	return nil
}
