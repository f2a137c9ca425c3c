package testutil

import (
	"sort"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/datastore"
)

// MemoryDataStore keeps install records in a map
type MemoryDataStore struct {
	mu      sync.Mutex
	records map[string]datastore.Record
}

// NewMemoryDataStore creates an empty store
func NewMemoryDataStore() *MemoryDataStore {
	return &MemoryDataStore{records: make(map[string]datastore.Record)}
}

// Save stores rec
func (m *MemoryDataStore) Save(rec datastore.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Package] = rec
	return nil
}

// Get returns the record for pkg
func (m *MemoryDataStore) Get(pkg string) (datastore.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[pkg]
	return rec, ok, nil
}

// Remove forgets pkg
func (m *MemoryDataStore) Remove(pkg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, pkg)
	return nil
}

// List returns records sorted by package key
func (m *MemoryDataStore) List() ([]datastore.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]datastore.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Package < out[j].Package })
	return out, nil
}

var _ datastore.DataStore = (*MemoryDataStore)(nil)
