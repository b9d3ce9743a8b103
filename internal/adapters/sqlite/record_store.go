// Package sqlite contains the SQLite implementation of the record store
// port. Each logical table maps to one SQL table whose TEXT columns are
// the table's fixed header.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// RecordStore implements secondary.RecordStore with SQLite.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a new SQLite record store.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// GetOrCreateTable ensures the table exists with its fixed header.
func (r *RecordStore) GetOrCreateTable(ctx context.Context, table secondary.Table) error {
	name, cols, err := identifiers(table)
	if err != nil {
		return err
	}

	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = fmt.Sprintf("%s TEXT NOT NULL DEFAULT ''", col)
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(defs, ", "))
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

// ListRows returns every row of the table in append order.
func (r *RecordStore) ListRows(ctx context.Context, table secondary.Table) ([]secondary.Row, error) {
	name, cols, err := identifiers(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), name)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows of %s: %w", table.Name, err)
	}
	defer rows.Close()

	var result []secondary.Row
	for rows.Next() {
		values := make([]string, len(table.Header))
		targets := make([]any, len(table.Header))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table.Name, err)
		}
		row := make(secondary.Row, len(table.Header))
		for i, col := range table.Header {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", table.Name, err)
	}
	return result, nil
}

// AppendRow appends one row; values are in header column order.
func (r *RecordStore) AppendRow(ctx context.Context, table secondary.Table, values []string) error {
	if len(values) != len(table.Header) {
		return fmt.Errorf("row for %s has %d values, header has %d columns", table.Name, len(values), len(table.Header))
	}
	name, cols, err := identifiers(table)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), placeholders)

	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table.Name, err)
	}
	return nil
}

// identifiers returns the quoted table and column identifiers. Table
// and column names come from the fixed specs in ports/secondary, but
// quoting still rejects anything that would escape an identifier.
func identifiers(table secondary.Table) (string, []string, error) {
	name, err := quoteIdent(table.Name)
	if err != nil {
		return "", nil, err
	}
	cols := make([]string, len(table.Header))
	for i, col := range table.Header {
		q, err := quoteIdent(col)
		if err != nil {
			return "", nil, err
		}
		cols[i] = q
	}
	return name, cols, nil
}

func quoteIdent(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// Ensure RecordStore implements the interface
var _ secondary.RecordStore = (*RecordStore)(nil)
