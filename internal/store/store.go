package store

import (
	"sync"

	"chartlab/domain/dataset"
	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// Entry pairs one dataset's metadata with its loaded records
type Entry struct {
	Meta    *dataset.Dataset
	Records *table.RecordSet
}

// Store is the in-memory registry of loaded datasets, keyed by dataset ID.
// All chart and test computations read from here; the record sets are never
// mutated after insertion, so concurrent readers need no coordination beyond
// the map lock.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty store
func New() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Put registers a loaded dataset
func (s *Store) Put(meta *dataset.Dataset, rs *table.RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[meta.ID]; !exists {
		s.order = append(s.order, meta.ID)
	}
	s.entries[meta.ID] = &Entry{Meta: meta, Records: rs}
}

// Get returns a dataset entry or a NOT_FOUND error
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, errors.NotFound("dataset " + id)
	}
	return entry, nil
}

// List returns metadata for every loaded dataset in insertion order
func (s *Store) List() []*dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*dataset.Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id].Meta)
	}
	return out
}

// Delete removes a dataset; deleting an unknown ID is a no-op
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of loaded datasets
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
