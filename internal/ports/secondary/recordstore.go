package secondary

import "context"

// Table describes one named tabular collection in the record store,
// together with its fixed header. The header doubles as the column
// order for appended rows.
type Table struct {
	Name   string
	Header []string
}

// The fixed tables the application reads and writes. Their headers are
// part of the storage contract and must not be reordered.
var (
	SchoolsTable = Table{
		Name:   "Schools",
		Header: []string{"School Name", "Program Manager", "Added Date"},
	}
	TeachersTable = Table{
		Name:   "Teachers",
		Header: []string{"School Name", "Teacher Name", "Is Trained", "Added Date"},
	}
	ObservationsTable = Table{
		Name: "Observations",
		Header: []string{
			"Timestamp", "PM Name", "School Name", "Visit Date",
			"Visit Type", "Teacher Details", "Observations",
			"Infrastructure Data", "Community Data", "Media Links",
		},
	}
)

// Row is one stored row keyed by column name.
type Row map[string]string

// RecordStore defines the secondary port for the tabular persistence
// service. The store offers no transactions and no uniqueness
// enforcement; callers that need either do it in-process before
// appending.
type RecordStore interface {
	// GetOrCreateTable ensures the table exists with its fixed header.
	// Creating a table that already exists is a no-op.
	GetOrCreateTable(ctx context.Context, table Table) error

	// ListRows returns every row of the table in append order.
	ListRows(ctx context.Context, table Table) ([]Row, error)

	// AppendRow appends one row; values are in header column order.
	AppendRow(ctx context.Context, table Table, values []string) error
}
