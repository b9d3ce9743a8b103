// Package postgres contains the PostgreSQL implementation of the record
// store port, for deployments where several field workers share one
// store. Same contract as the sqlite adapter; a hidden seq column
// provides append order.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// RecordStore implements secondary.RecordStore with PostgreSQL via pgx.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates a new PostgreSQL record store.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Connect opens a pgx pool for the given DSN and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

// GetOrCreateTable ensures the table exists with its fixed header.
func (r *RecordStore) GetOrCreateTable(ctx context.Context, table secondary.Table) error {
	name, cols, err := identifiers(table)
	if err != nil {
		return err
	}

	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, "seq BIGSERIAL PRIMARY KEY")
	for _, col := range cols {
		defs = append(defs, fmt.Sprintf("%s TEXT NOT NULL DEFAULT ''", col))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(defs, ", "))
	if _, err := r.pool.Exec(ctx, query); err != nil {
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

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY seq", strings.Join(cols, ", "), name)
	rows, err := r.pool.Query(ctx, query)
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

	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table.Name, err)
	}
	return nil
}

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
