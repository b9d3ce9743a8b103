package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// Ensure mockRecordStore implements the interface
var _ secondary.RecordStore = (*mockRecordStore)(nil)

// mockRecordStore implements secondary.RecordStore in memory with
// failure injection for testing.
type mockRecordStore struct {
	mu     sync.Mutex
	tables map[string][][]string

	createErr error
	appendErr error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{tables: make(map[string][][]string)}
}

func (m *mockRecordStore) GetOrCreateTable(ctx context.Context, table secondary.Table) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table.Name]; !ok {
		m.tables[table.Name] = [][]string{}
	}
	return nil
}

func (m *mockRecordStore) ListRows(ctx context.Context, table secondary.Table) ([]secondary.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tables[table.Name]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist", table.Name)
	}
	rows := make([]secondary.Row, len(stored))
	for i, values := range stored {
		row := make(secondary.Row, len(table.Header))
		for j, col := range table.Header {
			row[col] = values[j]
		}
		rows[i] = row
	}
	return rows, nil
}

func (m *mockRecordStore) AppendRow(ctx context.Context, table secondary.Table, values []string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if len(values) != len(table.Header) {
		return fmt.Errorf("row for %s has %d values, header has %d columns", table.Name, len(values), len(table.Header))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table.Name]; !ok {
		return fmt.Errorf("table %s does not exist", table.Name)
	}
	copied := make([]string, len(values))
	copy(copied, values)
	m.tables[table.Name] = append(m.tables[table.Name], copied)
	return nil
}

func (m *mockRecordStore) rowCount(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

func (m *mockRecordStore) row(table string, i int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[table][i]
}

// Ensure mockMediaStore implements the interface
var _ secondary.MediaStore = (*mockMediaStore)(nil)

// mockMediaStore implements secondary.MediaStore for testing, recording
// uploaded object names.
type mockMediaStore struct {
	mu      sync.Mutex
	uploads []string

	uploadErr error
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{}
}

func (m *mockMediaStore) Upload(ctx context.Context, content []byte, filename, contentType string) (*secondary.MediaObject, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, filename)
	return &secondary.MediaObject{
		ID:   filename,
		Link: "memory://" + filename,
	}, nil
}
