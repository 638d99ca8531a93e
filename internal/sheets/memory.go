package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps tables in process, keyed by sheet name. Cell spans in the
// requested range are ignored; the whole sheet is returned.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]Table
}

// NewMemoryStore creates a store seeded with the given sheets.
func NewMemoryStore(seed map[string]Table) *MemoryStore {
	tables := make(map[string]Table, len(seed))
	for name, t := range seed {
		tables[name] = cloneTable(t)
	}

	return &MemoryStore{tables: tables}
}

// FetchTable returns a copy of the sheet named in rng.
func (m *MemoryStore) FetchTable(_ context.Context, rng string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[SheetName(rng)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRangeNotFound, rng)
	}

	return cloneTable(t), nil
}

// AppendRow adds a row to the sheet named in rng, creating it if needed.
func (m *MemoryStore) AppendRow(_ context.Context, rng string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := SheetName(rng)
	m.tables[name] = append(m.tables[name], append([]string(nil), row...))

	return nil
}

// Appended returns a copy of all rows in the named sheet.
func (m *MemoryStore) Appended(sheet string) Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneTable(m.tables[sheet])
}

func cloneTable(t Table) Table {
	if t == nil {
		return nil
	}

	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append([]string(nil), row...)
	}

	return out
}
