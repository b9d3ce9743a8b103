package primary

import (
	"context"

	"github.com/example/fieldbook/internal/core/visit"
)

// SessionService defines the primary port for driving the observation
// wizard. One session corresponds to one in-progress form run.
type SessionService interface {
	// Start creates a fresh session at the basic details step.
	Start(ctx context.Context) (*SessionView, error)

	// Get returns the current state of a session, including previously
	// collected values so re-entered steps can pre-populate.
	Get(ctx context.Context, sessionID string) (*SessionView, error)

	// AdvanceBasicDetails validates and stores the first screen.
	AdvanceBasicDetails(ctx context.Context, req BasicDetailsRequest) (*SessionView, error)

	// AdvanceTeacherSelection validates and stores the teacher screen.
	AdvanceTeacherSelection(ctx context.Context, req TeacherSelectionRequest) (*SessionView, error)

	// AdvanceClassroomObservation validates and stores the per-teacher
	// observation screen.
	AdvanceClassroomObservation(ctx context.Context, req ClassroomObservationRequest) (*SessionView, error)

	// AdvanceInfrastructure validates and stores the monthly
	// infrastructure screen.
	AdvanceInfrastructure(ctx context.Context, req InfrastructureRequest) (*SessionView, error)

	// AdvanceCommunity validates and stores the monthly community screen.
	AdvanceCommunity(ctx context.Context, req CommunityRequest) (*SessionView, error)

	// Retreat moves the session one step back, keeping collected data.
	Retreat(ctx context.Context, sessionID string) (*SessionView, error)

	// AttachMedia uploads one file and attaches it to a teacher's
	// observation in progress.
	AttachMedia(ctx context.Context, req AttachMediaRequest) (*visit.MediaRef, error)

	// Submit assembles and persists the completed session, then resets
	// it to a fresh run. On persistence failure the session is kept
	// intact so the user can retry.
	Submit(ctx context.Context, sessionID string) (*SubmitResponse, error)

	// Discard drops an in-progress session without persisting anything.
	Discard(ctx context.Context, sessionID string) error
}

// SessionView is the presentation-facing snapshot of a session. Entity
// fields are nil until the corresponding step has been completed.
type SessionView struct {
	SessionID  string
	Step       string
	Page       int
	TotalPages int

	Context        *visit.VisitContext
	Teachers       *visit.TeacherSelection
	Observations   map[string]visit.ObservationEntry
	Infrastructure map[string]visit.InfrastructureEntry
	Community      *visit.CommunityEntry
	PendingMedia   map[string][]visit.MediaRef
}

// BasicDetailsRequest carries the first screen's raw input.
type BasicDetailsRequest struct {
	SessionID  string
	PMName     string
	SchoolName string
	VisitDate  string // YYYY-MM-DD
	VisitType  string
}

// TeacherSelectionRequest carries the teacher screen's raw input.
type TeacherSelectionRequest struct {
	SessionID string
	Trained   []string
	Untrained []string
}

// ObservationInput is one teacher's raw answers.
type ObservationInput struct {
	TeacherMetrics map[string]string
	StudentMetrics map[string]string
}

// ClassroomObservationRequest carries the observation screen's raw input.
type ClassroomObservationRequest struct {
	SessionID string
	Entries   map[string]ObservationInput
}

// InfrastructureInput is one subject's raw assessment.
type InfrastructureInput struct {
	Materials string
	Storage   string
	Condition string
}

// InfrastructureRequest carries the infrastructure screen's raw input.
type InfrastructureRequest struct {
	SessionID string
	Entries   map[string]InfrastructureInput
}

// CommunityRequest carries the community screen's raw input.
type CommunityRequest struct {
	SessionID           string
	ParentMeetings      int
	ParentAttendancePct int
	CommunityEvents     int
	SMCMeetings         int
	Notes               string
}

// AttachMediaRequest carries one media upload.
type AttachMediaRequest struct {
	SessionID   string
	TeacherName string
	Kind        string // "photo" or "video"
	Filename    string
	ContentType string
	Content     []byte
}

// SubmitResponse reports the persisted record.
type SubmitResponse struct {
	Timestamp  string
	SchoolName string
	VisitType  string
	MediaCount int
}
