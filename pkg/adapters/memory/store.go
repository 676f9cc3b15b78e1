// Package memory provides an in-memory ResultStore, used by tests and by
// single-process runs that only need the download fallback for durability.
package memory

import (
	"context"
	"sync"

	"github.com/openstimuli/cadence/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Results
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Results),
	}
}

// Save persists a snapshot of the results in memory.
func (s *Store) Save(ctx context.Context, sessionID string, results domain.Results) error {
	// Copy on write so the caller can keep mutating its artifact.
	copied := domain.NewResults()
	copied.Merge(results)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the results from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}

	// Copy on read so the caller can't mutate store state by reference.
	ret := domain.NewResults()
	ret.Merge(results)
	return ret, nil
}

// Delete removes the results.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns session IDs with stored results.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
