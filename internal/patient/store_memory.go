package patient

import (
	"context"
	"strings"
	"sync"
)

// InMemoryDirectory is a name-keyed patient directory for dev and tests.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryDirectory creates an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{records: make(map[string]*Record)}
}

// Add registers a record, keyed by lowercased name.
func (d *InMemoryDirectory) Add(rec *Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[strings.ToLower(rec.Name)] = rec
}

func (d *InMemoryDirectory) FindByName(_ context.Context, name string) (*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rec
	return &copied, nil
}
