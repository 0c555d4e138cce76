package storage

import (
	"context"
	"slices"
	"sync"

	"kakeibo/internal/core"
)

// Memory keeps the "persisted" ledger in process. It backs the memory data
// backend and tests; SaveErr makes every Save fail.
type Memory struct {
	mu      sync.Mutex
	records []core.Record
	saves   int
	LoadErr error
	SaveErr error
}

func NewMemory(seed ...core.Record) *Memory {
	return &Memory{records: slices.Clone(seed)}
}

// Load implements ledger.Persister.
func (m *Memory) Load(_ context.Context) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.records == nil {
		return []core.Record{}, nil
	}
	return slices.Clone(m.records), nil
}

// Save implements ledger.Persister.
func (m *Memory) Save(_ context.Context, records []core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.records = slices.Clone(records)
	m.saves++
	return nil
}

// Saves reports how many successful writes happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
