// Package memory implements the audit ledger in process memory for dev and
// tests. Entries are held in append order and queried newest first.
package memory

import (
	"context"
	"sync"

	"medtrust/internal/audit"
)

// InMemoryStore is an append-only slice behind a mutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// New creates an empty in-memory ledger.
func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, filter audit.Filter) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk backwards so results come out newest first.
	var result []audit.Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if !matches(entry, filter) {
			continue
		}
		result = append(result, entry)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// Len reports the total number of appended entries. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func matches(entry audit.Entry, filter audit.Filter) bool {
	if filter.IdentityID != "" && entry.IdentityID != filter.IdentityID {
		return false
	}
	if filter.PatientID != "" && entry.PatientID != filter.PatientID {
		return false
	}
	if !filter.From.IsZero() && entry.Timestamp.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && entry.Timestamp.After(filter.To) {
		return false
	}
	return true
}
