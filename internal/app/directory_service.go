// Package app implements the primary ports by orchestrating the pure
// core against the record and media store adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/core/visit"
	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/ports/secondary"
)

// ErrTeacherExists is returned when adding a teacher whose name already
// exists at the same school.
var ErrTeacherExists = errors.New("teacher already exists in this school")

// DirectoryServiceImpl implements the DirectoryService interface over
// the record store's Schools and Teachers tables.
type DirectoryServiceImpl struct {
	store secondary.RecordStore
	log   *zap.Logger
	now   func() time.Time
}

// NewDirectoryService creates a new DirectoryService with injected
// dependencies.
func NewDirectoryService(store secondary.RecordStore, log *zap.Logger) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// ListProgramManagers returns the distinct program manager names, sorted.
func (s *DirectoryServiceImpl) ListProgramManagers(ctx context.Context) ([]string, error) {
	rows, err := s.listTable(ctx, secondary.SchoolsTable)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, row := range rows {
		name := strings.TrimSpace(row["Program Manager"])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListSchools returns the school names managed by the given program
// manager.
func (s *DirectoryServiceImpl) ListSchools(ctx context.Context, pmName string) ([]string, error) {
	rows, err := s.listTable(ctx, secondary.SchoolsTable)
	if err != nil {
		return nil, err
	}

	schools := []string{}
	for _, row := range rows {
		if strings.EqualFold(row["Program Manager"], pmName) {
			schools = append(schools, row["School Name"])
		}
	}
	return schools, nil
}

// ListTeachers returns the school's teachers split by training status.
func (s *DirectoryServiceImpl) ListTeachers(ctx context.Context, schoolName string) (*primary.TeacherRoster, error) {
	rows, err := s.listTable(ctx, secondary.TeachersTable)
	if err != nil {
		return nil, err
	}

	roster := &primary.TeacherRoster{Trained: []string{}, Untrained: []string{}}
	for _, row := range rows {
		if row["School Name"] != schoolName {
			continue
		}
		trained, _ := strconv.ParseBool(row["Is Trained"])
		if trained {
			roster.Trained = append(roster.Trained, row["Teacher Name"])
		} else {
			roster.Untrained = append(roster.Untrained, row["Teacher Name"])
		}
	}
	return roster, nil
}

// AddSchool registers a new school under a program manager.
func (s *DirectoryServiceImpl) AddSchool(ctx context.Context, req primary.AddSchoolRequest) error {
	if strings.TrimSpace(req.SchoolName) == "" {
		return &visit.ValidationError{Field: "school_name", Reason: "school name is required"}
	}
	if strings.TrimSpace(req.ProgramManager) == "" {
		return &visit.ValidationError{Field: "program_manager", Reason: "program manager is required"}
	}

	if err := s.store.GetOrCreateTable(ctx, secondary.SchoolsTable); err != nil {
		return fmt.Errorf("failed to prepare schools table: %w", err)
	}
	row := []string{
		strings.TrimSpace(req.SchoolName),
		strings.TrimSpace(req.ProgramManager),
		s.now().Format(visit.TimestampLayout),
	}
	if err := s.store.AppendRow(ctx, secondary.SchoolsTable, row); err != nil {
		return fmt.Errorf("failed to add school: %w", err)
	}

	s.log.Info("added school",
		zap.String("school", req.SchoolName),
		zap.String("program_manager", req.ProgramManager))
	return nil
}

// AddTeacher registers a new teacher at a school. The duplicate check is
// an in-process scan, not a store-side constraint: concurrent writers
// can still race, which the record store contract accepts.
func (s *DirectoryServiceImpl) AddTeacher(ctx context.Context, req primary.AddTeacherRequest) error {
	schoolName := strings.TrimSpace(req.SchoolName)
	teacherName := strings.TrimSpace(req.TeacherName)
	if schoolName == "" {
		return &visit.ValidationError{Field: "school_name", Reason: "school name is required"}
	}
	if teacherName == "" {
		return &visit.ValidationError{Field: "teacher_name", Reason: "teacher name is required"}
	}

	rows, err := s.listTable(ctx, secondary.TeachersTable)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row["School Name"] == schoolName && strings.EqualFold(row["Teacher Name"], teacherName) {
			return ErrTeacherExists
		}
	}

	row := []string{
		schoolName,
		teacherName,
		strconv.FormatBool(req.Trained),
		s.now().Format(visit.TimestampLayout),
	}
	if err := s.store.AppendRow(ctx, secondary.TeachersTable, row); err != nil {
		return fmt.Errorf("failed to add teacher: %w", err)
	}

	s.log.Info("added teacher",
		zap.String("school", schoolName),
		zap.String("teacher", teacherName),
		zap.Bool("trained", req.Trained))
	return nil
}

// ListObservations returns the persisted observation rows in stored
// order.
func (s *DirectoryServiceImpl) ListObservations(ctx context.Context) ([]primary.ObservationSummary, error) {
	rows, err := s.listTable(ctx, secondary.ObservationsTable)
	if err != nil {
		return nil, err
	}

	summaries := make([]primary.ObservationSummary, len(rows))
	for i, row := range rows {
		summaries[i] = primary.ObservationSummary{
			Timestamp:          row["Timestamp"],
			PMName:             row["PM Name"],
			SchoolName:         row["School Name"],
			VisitDate:          row["Visit Date"],
			VisitType:          row["Visit Type"],
			TeacherDetailsJSON: row["Teacher Details"],
			ObservationsJSON:   row["Observations"],
			InfrastructureJSON: row["Infrastructure Data"],
			CommunityJSON:      row["Community Data"],
			MediaLinksJSON:     row["Media Links"],
		}
	}
	return summaries, nil
}

// listTable ensures the table exists before listing so that a fresh
// deployment reads an empty table instead of a missing-resource fault.
func (s *DirectoryServiceImpl) listTable(ctx context.Context, table secondary.Table) ([]secondary.Row, error) {
	if err := s.store.GetOrCreateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to prepare %s table: %w", table.Name, err)
	}
	rows, err := s.store.ListRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table: %w", table.Name, err)
	}
	return rows, nil
}

// Ensure DirectoryServiceImpl implements the interface
var _ primary.DirectoryService = (*DirectoryServiceImpl)(nil)
