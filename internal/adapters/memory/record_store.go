// Package memory contains in-memory adapter implementations used in
// tests and for throwaway local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// RecordStore implements secondary.RecordStore in process memory.
type RecordStore struct {
	mu     sync.Mutex
	tables map[string][][]string
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{tables: make(map[string][][]string)}
}

// GetOrCreateTable ensures the table exists.
func (r *RecordStore) GetOrCreateTable(ctx context.Context, table secondary.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[table.Name]; !ok {
		r.tables[table.Name] = [][]string{}
	}
	return nil
}

// ListRows returns every row of the table in append order.
func (r *RecordStore) ListRows(ctx context.Context, table secondary.Table) ([]secondary.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tables[table.Name]
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

// AppendRow appends one row; values are in header column order.
func (r *RecordStore) AppendRow(ctx context.Context, table secondary.Table, values []string) error {
	if len(values) != len(table.Header) {
		return fmt.Errorf("row for %s has %d values, header has %d columns", table.Name, len(values), len(table.Header))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[table.Name]; !ok {
		return fmt.Errorf("table %s does not exist", table.Name)
	}
	copied := make([]string, len(values))
	copy(copied, values)
	r.tables[table.Name] = append(r.tables[table.Name], copied)
	return nil
}

// Ensure RecordStore implements the interface
var _ secondary.RecordStore = (*RecordStore)(nil)
