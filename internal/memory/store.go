// Package memory provides an in-memory ledger store for tests and local
// runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"donorledger/internal/core"
)

type Store struct {
	mu      sync.Mutex
	entries map[int64]core.LedgerEntry
}

func New() *Store {
	return &Store{entries: make(map[int64]core.LedgerEntry)}
}

// Seed preloads entries, mainly for tests.
func (s *Store) Seed(entries []core.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.DonorID] = e
	}
}

func (s *Store) LoadAll(_ context.Context) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonorID < out[j].DonorID })
	return out, nil
}

func (s *Store) ReplaceAll(_ context.Context, entries []core.LedgerEntry) error {
	next := make(map[int64]core.LedgerEntry, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("refusing to store invalid entry for donor %d: %w", e.DonorID, err)
		}
		next[e.DonorID] = e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = next
	return nil
}

func (s *Store) Close() error { return nil }
