package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/core/visit"
	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/ports/secondary"
)

func newTestDirectoryService() (*DirectoryServiceImpl, *mockRecordStore) {
	store := newMockRecordStore()
	svc := NewDirectoryService(store, zap.NewNop())
	return svc, store
}

func TestAddSchoolAndListProgramManagers(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestDirectoryService()

	schools := []primary.AddSchoolRequest{
		{SchoolName: "GPS Rampur", ProgramManager: "Anita Sharma"},
		{SchoolName: "GPS Berela", ProgramManager: "anita sharma"},
		{SchoolName: "UPS Kotra", ProgramManager: "Vikram Rao"},
	}
	for _, req := range schools {
		if err := svc.AddSchool(ctx, req); err != nil {
			t.Fatalf("AddSchool failed: %v", err)
		}
	}
	if got := store.rowCount(secondary.SchoolsTable.Name); got != 3 {
		t.Fatalf("schools rows = %d, want 3", got)
	}

	pms, err := svc.ListProgramManagers(ctx)
	if err != nil {
		t.Fatalf("ListProgramManagers failed: %v", err)
	}
	// Case-insensitive distinct, first spelling wins, sorted.
	if len(pms) != 2 || pms[0] != "Anita Sharma" || pms[1] != "Vikram Rao" {
		t.Errorf("program managers = %v", pms)
	}
}

func TestAddSchoolValidation(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestDirectoryService()

	var verr *visit.ValidationError
	if err := svc.AddSchool(ctx, primary.AddSchoolRequest{SchoolName: " ", ProgramManager: "PM"}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for blank school, got %v", err)
	}
	if err := svc.AddSchool(ctx, primary.AddSchoolRequest{SchoolName: "GPS", ProgramManager: ""}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for blank pm, got %v", err)
	}
	if got := store.rowCount(secondary.SchoolsTable.Name); got != 0 {
		t.Errorf("rejected schools wrote %d rows", got)
	}
}

func TestListSchoolsIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDirectoryService()

	if err := svc.AddSchool(ctx, primary.AddSchoolRequest{SchoolName: "GPS Rampur", ProgramManager: "Anita Sharma"}); err != nil {
		t.Fatalf("AddSchool failed: %v", err)
	}

	schools, err := svc.ListSchools(ctx, "ANITA SHARMA")
	if err != nil {
		t.Fatalf("ListSchools failed: %v", err)
	}
	if len(schools) != 1 || schools[0] != "GPS Rampur" {
		t.Errorf("schools = %v, want [GPS Rampur]", schools)
	}
}

func TestAddTeacherRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestDirectoryService()

	if err := svc.AddTeacher(ctx, primary.AddTeacherRequest{SchoolName: "GPS Rampur", TeacherName: "R. Verma", Trained: true}); err != nil {
		t.Fatalf("AddTeacher failed: %v", err)
	}

	// Case-insensitive duplicate at the same school is rejected without
	// writing a second row.
	err := svc.AddTeacher(ctx, primary.AddTeacherRequest{SchoolName: "GPS Rampur", TeacherName: "r. verma"})
	if !errors.Is(err, ErrTeacherExists) {
		t.Fatalf("expected ErrTeacherExists, got %v", err)
	}
	if got := store.rowCount(secondary.TeachersTable.Name); got != 1 {
		t.Errorf("teachers rows = %d, want 1", got)
	}

	// The same name at a different school is fine.
	if err := svc.AddTeacher(ctx, primary.AddTeacherRequest{SchoolName: "UPS Kotra", TeacherName: "R. Verma"}); err != nil {
		t.Fatalf("AddTeacher at other school failed: %v", err)
	}
}

func TestAddTeacherTrimsSchoolName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDirectoryService()

	if err := svc.AddTeacher(ctx, primary.AddTeacherRequest{SchoolName: " GPS Rampur ", TeacherName: " R. Verma ", Trained: true}); err != nil {
		t.Fatalf("AddTeacher failed: %v", err)
	}

	// Stored under the trimmed school name, so listings find the teacher.
	roster, err := svc.ListTeachers(ctx, "GPS Rampur")
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if len(roster.Trained) != 1 || roster.Trained[0] != "R. Verma" {
		t.Errorf("trained = %v, want [R. Verma]", roster.Trained)
	}

	// The padded spelling collides with the stored row.
	err = svc.AddTeacher(ctx, primary.AddTeacherRequest{SchoolName: "GPS Rampur", TeacherName: "r. verma"})
	if !errors.Is(err, ErrTeacherExists) {
		t.Errorf("expected ErrTeacherExists, got %v", err)
	}
}

func TestListTeachersSplitsByTraining(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDirectoryService()

	teachers := []primary.AddTeacherRequest{
		{SchoolName: "GPS Rampur", TeacherName: "R. Verma", Trained: true},
		{SchoolName: "GPS Rampur", TeacherName: "S. Devi"},
		{SchoolName: "UPS Kotra", TeacherName: "K. Singh", Trained: true},
	}
	for _, req := range teachers {
		if err := svc.AddTeacher(ctx, req); err != nil {
			t.Fatalf("AddTeacher failed: %v", err)
		}
	}

	roster, err := svc.ListTeachers(ctx, "GPS Rampur")
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if len(roster.Trained) != 1 || roster.Trained[0] != "R. Verma" {
		t.Errorf("trained = %v, want [R. Verma]", roster.Trained)
	}
	if len(roster.Untrained) != 1 || roster.Untrained[0] != "S. Devi" {
		t.Errorf("untrained = %v, want [S. Devi]", roster.Untrained)
	}
}

func TestListTeachersEmptySchool(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDirectoryService()

	roster, err := svc.ListTeachers(ctx, "Nowhere")
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if roster.Trained == nil || roster.Untrained == nil {
		t.Error("roster slices should be empty, not nil")
	}
	if len(roster.Trained)+len(roster.Untrained) != 0 {
		t.Errorf("roster = %+v, want empty", roster)
	}
}
