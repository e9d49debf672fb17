package enzyme

import (
	"context"
	"sync"

	"github.com/teranos/plaszyme/errors"
)

// MemorySource is an in-memory corpus with the same candidate semantics as
// Store. Used for FASTA-file searches and tests.
type MemorySource struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int
}

// NewMemorySource creates a source holding records in the given order.
func NewMemorySource(records ...Record) *MemorySource {
	m := &MemorySource{index: make(map[string]int)}
	for _, r := range records {
		m.add(r)
	}
	return m
}

// Add appends r, replacing any record with the same id in place.
func (m *MemorySource) Add(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(r)
}

func (m *MemorySource) add(r Record) {
	r.Tags = NormalizeTags(r.Tags)
	if r.PDBIDs != "" {
		r.HasStructure = true
	}
	if i, ok := m.index[r.ID]; ok {
		m.records[i] = r
		return
	}
	m.index[r.ID] = len(m.records)
	m.records = append(m.records, r)
}

// Len returns the number of records.
func (m *MemorySource) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Candidates returns up to limit matching records in insertion order.
func (m *MemorySource) Candidates(ctx context.Context, f Filter, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Record{}
	for _, r := range m.records {
		if len(out) >= limit {
			break
		}
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns the record with id, or an error wrapping errors.ErrNotFound.
func (m *MemorySource) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return nil, errors.NewNotFoundError("enzyme %s", id)
	}
	r := m.records[i]
	return &r, nil
}

// PutBatch adds or replaces records.
func (m *MemorySource) PutBatch(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if r.ID == "" {
			return errors.NewInvalidRequestError("enzyme record without id")
		}
		m.add(r)
	}
	return nil
}
