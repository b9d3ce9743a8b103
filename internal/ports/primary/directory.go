package primary

import "context"

// DirectoryService defines the primary port for the reference data that
// populates the wizard's dropdowns: program managers, their schools, and
// each school's teachers.
type DirectoryService interface {
	// ListProgramManagers returns the distinct program manager names,
	// sorted.
	ListProgramManagers(ctx context.Context) ([]string, error)

	// ListSchools returns the school names managed by the given program
	// manager (case-insensitive match).
	ListSchools(ctx context.Context, pmName string) ([]string, error)

	// ListTeachers returns the school's teachers split by training
	// status.
	ListTeachers(ctx context.Context, schoolName string) (*TeacherRoster, error)

	// AddSchool registers a new school under a program manager.
	AddSchool(ctx context.Context, req AddSchoolRequest) error

	// AddTeacher registers a new teacher at a school. A name that
	// already exists at the school (case-insensitive) is rejected
	// without writing.
	AddTeacher(ctx context.Context, req AddTeacherRequest) error

	// ListObservations returns summaries of persisted observation rows,
	// newest-first input order is preserved as stored.
	ListObservations(ctx context.Context) ([]ObservationSummary, error)
}

// TeacherRoster is a school's teachers split by training status.
type TeacherRoster struct {
	Trained   []string
	Untrained []string
}

// AddSchoolRequest carries a new school registration.
type AddSchoolRequest struct {
	SchoolName     string
	ProgramManager string
}

// AddTeacherRequest carries a new teacher registration.
type AddTeacherRequest struct {
	SchoolName  string
	TeacherName string
	Trained     bool
}

// ObservationSummary is one persisted observation row's identifying
// fields plus its serialized sections.
type ObservationSummary struct {
	Timestamp          string
	PMName             string
	SchoolName         string
	VisitDate          string
	VisitType          string
	TeacherDetailsJSON string
	ObservationsJSON   string
	InfrastructureJSON string
	CommunityJSON      string
	MediaLinksJSON     string
}
