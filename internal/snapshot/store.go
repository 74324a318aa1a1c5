// Package snapshot owns the shared, periodically refreshed process table.
//
// Readers run under a read lock for as long as they need a consistent view
// ([Store.View]); refreshes enumerate without holding the lock and swap the
// new table in under a short write lock, so a reader always sees one whole
// snapshot and never a half-updated one.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/procview/internal/errors"
	"github.com/Iron-Ham/procview/internal/logging"
	"github.com/Iron-Ham/procview/internal/process"
)

// Snapshot is one complete enumeration of the process table. It is
// immutable once published.
type Snapshot struct {
	Records  []process.Record
	CPUCount int
	TakenAt  time.Time

	// Generation increases by one with every published snapshot; the empty
	// initial snapshot is generation 0.
	Generation uint64

	index map[int32]int
}

func newSnapshot(records []process.Record, cpuCount int, takenAt time.Time, gen uint64) *Snapshot {
	index := make(map[int32]int, len(records))
	for i := range records {
		index[records[i].PID] = i
	}
	return &Snapshot{
		Records:    records,
		CPUCount:   cpuCount,
		TakenAt:    takenAt,
		Generation: gen,
		index:      index,
	}
}

// Lookup returns the record for pid.
func (s *Snapshot) Lookup(pid int32) (*process.Record, bool) {
	i, ok := s.index[pid]
	if !ok {
		return nil, false
	}
	return &s.Records[i], true
}

// Contains reports whether pid is present.
func (s *Snapshot) Contains(pid int32) bool {
	_, ok := s.index[pid]
	return ok
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// Store holds the latest snapshot.
type Store struct {
	source process.Source
	logger *logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *Snapshot

	refreshing atomic.Bool
}

// NewStore creates a store with an empty snapshot. Call Refresh to populate
// it. A nil logger discards output.
func NewStore(source process.Source, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{
		source:  source,
		logger:  logger.WithComponent("snapshot"),
		now:     time.Now,
		current: newSnapshot(nil, cpuCount(source), time.Time{}, 0),
	}
}

func cpuCount(source process.Source) int {
	if n := source.CPUCount(); n > 0 {
		return n
	}
	return 1
}

// View runs fn with the current snapshot under the read lock. Every stage
// that must agree on one refresh cycle belongs inside a single View call.
// fn must not retain the snapshot or call Refresh.
func (s *Store) View(fn func(*Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.current)
}

// Current returns the latest snapshot. Snapshots are never mutated after
// publication, so the result is safe to read without holding the lock.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generation returns the generation of the latest snapshot.
func (s *Store) Generation() uint64 {
	return s.Current().Generation
}

// Refresh enumerates the process table and publishes the result.
//
// At most one enumeration runs at a time. A call made while another is in
// flight returns a retryable SnapshotError wrapping ErrRefreshInProgress
// without waiting. A panic in the source is recovered and returned as a
// retryable SnapshotError wrapping ErrSourcePanicked. On any error the
// previous snapshot stays in place.
func (s *Store) Refresh(ctx context.Context) (err error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return errors.NewSnapshotError("refresh skipped", errors.ErrRefreshInProgress)
	}
	defer s.refreshing.Store(false)

	records, err := s.enumerate(ctx)
	if err != nil {
		return err
	}

	snap := s.publish(records)
	s.logger.Debug("snapshot published", "generation", snap.Generation, "records", len(records))
	return nil
}

func (s *Store) enumerate(ctx context.Context) (records []process.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("process source panicked", "panic", fmt.Sprint(r))
			records = nil
			err = errors.NewSnapshotError("refresh aborted", fmt.Errorf("%w: %v", errors.ErrSourcePanicked, r))
		}
	}()

	records, err = s.source.Processes(ctx)
	if err != nil {
		return nil, errors.NewSnapshotError("enumeration failed", err)
	}
	return records, nil
}

func (s *Store) publish(records []process.Record) *Snapshot {
	takenAt := s.now()
	cpus := cpuCount(s.source)

	s.mu.Lock()
	defer s.mu.Unlock()
	snap := newSnapshot(records, cpus, takenAt, s.current.Generation+1)
	s.current = snap
	return snap
}
