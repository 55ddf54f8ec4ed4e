// Package memory implements the trust store as a mutex-guarded map.
// Suitable for tests and single-instance dev deployments; production uses the
// PostgreSQL or Redis store.
package memory

import (
	"context"
	"sync"
	"time"

	"medtrust/internal/trust"
)

type record struct {
	score       float64
	lastUpdated time.Time
	factors     map[string]any
}

// InMemoryStore holds trust scores in process memory. The single mutex makes
// every ApplyDelta an atomic read-modify-write.
type InMemoryStore struct {
	mu           sync.Mutex
	records      map[string]*record
	defaultScore float64
}

// New creates an in-memory trust store. The default score is injected rather
// than hard-coded so registration-time and system-assigned defaults can both
// be served.
func New(defaultScore float64) *InMemoryStore {
	return &InMemoryStore{
		records:      make(map[string]*record),
		defaultScore: trust.Clamp(defaultScore),
	}
}

func (s *InMemoryStore) Score(_ context.Context, key trust.Key) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key.String()]; ok {
		return rec.score, nil
	}
	return s.defaultScore, nil
}

func (s *InMemoryStore) ApplyDelta(_ context.Context, key trust.Key, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(key)
	rec.score = trust.Clamp(rec.score + delta)
	rec.lastUpdated = time.Now()
	return rec.score, nil
}

func (s *InMemoryStore) SetFactors(_ context.Context, key trust.Key, factors map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(key)
	copied := make(map[string]any, len(factors))
	for k, v := range factors {
		copied[k] = v
	}
	rec.factors = copied
	return nil
}

// Factors returns the informational factors for a key. Used by tests and the
// debug surface; returns nil for unseen keys.
func (s *InMemoryStore) Factors(key trust.Key) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key.String()]; ok {
		return rec.factors
	}
	return nil
}

// getOrCreate must be called while holding s.mu.
func (s *InMemoryStore) getOrCreate(key trust.Key) *record {
	if rec, ok := s.records[key.String()]; ok {
		return rec
	}
	rec := &record{score: s.defaultScore}
	s.records[key.String()] = rec
	return rec
}
