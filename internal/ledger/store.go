// Package ledger owns the authoritative, write-through record collection.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"kakeibo/internal/core"
)

// Persister is the durable side of the ledger. Load returns an empty slice
// when nothing has been persisted yet and a *core.CorruptStateError when the
// persisted state cannot be parsed. Save overwrites everything.
type Persister interface {
	Load(ctx context.Context) ([]core.Record, error)
	Save(ctx context.Context, records []core.Record) error
}

// Store is the single source of truth for the session. Every mutation is
// persisted before it returns; there is no write-behind.
//
// The mutex only serialises callers inside one process. Two processes
// writing the same persisted state still lose updates.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	records   []core.Record
	revision  uint64
}

// Open loads the persisted collection and returns a ready store.
func Open(ctx context.Context, p Persister) (*Store, error) {
	records, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if records == nil {
		records = []core.Record{}
	}
	slog.InfoContext(ctx, "Ledger loaded", "records", len(records))
	return &Store{persister: p, records: records}, nil
}

// All returns a snapshot of the collection. Later mutations are not
// reflected in it and changing it does not affect the store.
func (s *Store) All() []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Revision increases by one on every mutation, including mutations whose
// durable write failed.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Append validates r, adds it at the end and persists the whole collection.
// A record failing validation is refused and nothing changes.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	s.revision++
	return s.persistLocked(ctx, OpAppend)
}

// Replace substitutes the whole collection and persists it. It is the only
// way to remove or rewrite records; see core.Merge.
func (s *Store) Replace(ctx context.Context, records []core.Record) error {
	next := slices.Clone(records)
	if next == nil {
		next = []core.Record{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = next
	s.revision++
	return s.persistLocked(ctx, OpReplace)
}

// Rewrite computes the next collection from the current one while holding
// the write lock, so nothing can change in between. fn gets a copy of the
// current records and the current revision; when it returns an error the
// store is left untouched and that error is returned as is.
func (s *Store) Rewrite(ctx context.Context, fn func(current []core.Record, revision uint64) ([]core.Record, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(slices.Clone(s.records), s.revision)
	if err != nil {
		return err
	}
	if next == nil {
		next = []core.Record{}
	}
	s.records = next
	s.revision++
	return s.persistLocked(ctx, OpReplace)
}

// persistLocked writes the current collection. On failure the in-memory
// change is kept and the caller gets a *core.PersistenceError.
func (s *Store) persistLocked(ctx context.Context, op string) error {
	if err := s.persister.Save(ctx, s.records); err != nil {
		slog.ErrorContext(ctx, "Ledger write failed, change kept in memory only",
			"operation", op,
			"records", len(s.records),
			"revision", s.revision,
			"error", err)
		return &core.PersistenceError{Op: op, Err: err}
	}
	return nil
}
