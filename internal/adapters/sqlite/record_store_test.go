package sqlite

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/fieldbook/internal/ports/secondary"
)

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecordStore(db)
}

func TestGetOrCreateTableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.GetOrCreateTable(ctx, secondary.SchoolsTable); err != nil {
		t.Fatalf("GetOrCreateTable failed: %v", err)
	}
	if err := store.GetOrCreateTable(ctx, secondary.SchoolsTable); err != nil {
		t.Fatalf("second GetOrCreateTable failed: %v", err)
	}

	rows, err := store.ListRows(ctx, secondary.SchoolsTable)
	if err != nil {
		t.Fatalf("ListRows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("fresh table has %d rows", len(rows))
	}
}

func TestAppendAndListPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.GetOrCreateTable(ctx, secondary.SchoolsTable); err != nil {
		t.Fatalf("GetOrCreateTable failed: %v", err)
	}

	appended := [][]string{
		{"GPS Rampur", "Anita Sharma", "2026-03-14 09:00:00"},
		{"GPS Berela", "Anita Sharma", "2026-03-14 09:05:00"},
		{"UPS Kotra", "Vikram Rao", "2026-03-14 09:10:00"},
	}
	for _, row := range appended {
		if err := store.AppendRow(ctx, secondary.SchoolsTable, row); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}

	rows, err := store.ListRows(ctx, secondary.SchoolsTable)
	if err != nil {
		t.Fatalf("ListRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, want := range appended {
		if rows[i]["School Name"] != want[0] || rows[i]["Program Manager"] != want[1] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want)
		}
	}
}

func TestAppendRowRejectsWrongWidth(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.GetOrCreateTable(ctx, secondary.SchoolsTable); err != nil {
		t.Fatalf("GetOrCreateTable failed: %v", err)
	}
	if err := store.AppendRow(ctx, secondary.SchoolsTable, []string{"only one"}); err == nil {
		t.Error("expected error for wrong value count")
	}
}

func TestObservationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.GetOrCreateTable(ctx, secondary.ObservationsTable); err != nil {
		t.Fatalf("GetOrCreateTable failed: %v", err)
	}

	// JSON cells with quotes and unicode survive storage untouched.
	row := []string{
		"2026-03-14 10:30:00",
		"Anita Sharma",
		"GPS Rampur",
		"2026-03-14",
		"Monthly",
		`{"trained_teachers":["R. Verma"],"untrained_teachers":[]}`,
		`{"R. Verma":{"teacher_metrics":{"lesson_plan":"Yes"}}}`,
		`{"Mathematics":{"materials":"Yes","storage":"Partial","condition":"Good"}}`,
		`{"parent_meetings":2,"notes":"SMC active"}`,
		`[{"type":"photo","name":"blackboard.jpg"}]`,
	}
	if err := store.AppendRow(ctx, secondary.ObservationsTable, row); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}

	rows, err := store.ListRows(ctx, secondary.ObservationsTable)
	if err != nil {
		t.Fatalf("ListRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	for i, col := range secondary.ObservationsTable.Header {
		if rows[0][col] != row[i] {
			t.Errorf("column %s = %q, want %q", col, rows[0][col], row[i])
		}
	}
}

func TestQuoteIdentRejectsQuotes(t *testing.T) {
	if _, err := quoteIdent(`bad"name`); err == nil {
		t.Error("expected error for identifier containing a quote")
	}
	if _, err := quoteIdent(""); err == nil {
		t.Error("expected error for empty identifier")
	}
}
