package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/core/visit"
	"github.com/example/fieldbook/internal/core/wizard"
	"github.com/example/fieldbook/internal/metrics"
	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/ports/secondary"
)

// ErrSessionNotFound is returned for an unknown or discarded session ID.
var ErrSessionNotFound = errors.New("session not found")

// SessionServiceImpl implements the SessionService interface. Sessions
// live in memory until submission; submitting transfers ownership of the
// collected entities to the record store and discards the working copy.
type SessionServiceImpl struct {
	mu       sync.Mutex
	sessions map[string]wizard.Session

	store secondary.RecordStore
	media secondary.MediaStore
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewSessionService creates a new SessionService with injected
// dependencies.
func NewSessionService(store secondary.RecordStore, media secondary.MediaStore, log *zap.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessions: make(map[string]wizard.Session),
		store:    store,
		media:    media,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start creates a fresh session at the basic details step.
func (s *SessionServiceImpl) Start(ctx context.Context) (*primary.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	sess := wizard.NewSession()
	s.sessions[id] = sess
	s.log.Info("started session", zap.String("session", id))
	return viewOf(id, sess), nil
}

// Get returns the current state of a session.
func (s *SessionServiceImpl) Get(ctx context.Context, sessionID string) (*primary.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return viewOf(sessionID, sess), nil
}

// AdvanceBasicDetails validates and stores the first screen.
func (s *SessionServiceImpl) AdvanceBasicDetails(ctx context.Context, req primary.BasicDetailsRequest) (*primary.SessionView, error) {
	date, err := time.Parse(visit.DateLayout, req.VisitDate)
	if err != nil {
		return nil, &visit.ValidationError{Field: "visit_date", Reason: fmt.Sprintf("must be a %s date", visit.DateLayout)}
	}
	vctx, err := visit.NewVisitContext(req.PMName, req.SchoolName, date, visit.VisitType(req.VisitType))
	if err != nil {
		return nil, err
	}
	return s.advance(req.SessionID, wizard.BasicDetailsPayload{Context: *vctx})
}

// AdvanceTeacherSelection validates and stores the teacher screen.
func (s *SessionServiceImpl) AdvanceTeacherSelection(ctx context.Context, req primary.TeacherSelectionRequest) (*primary.SessionView, error) {
	sel, err := visit.NewTeacherSelection(req.Trained, req.Untrained)
	if err != nil {
		return nil, err
	}
	return s.advance(req.SessionID, wizard.TeacherSelectionPayload{Selection: *sel})
}

// AdvanceClassroomObservation validates and stores the per-teacher
// observation screen.
func (s *SessionServiceImpl) AdvanceClassroomObservation(ctx context.Context, req primary.ClassroomObservationRequest) (*primary.SessionView, error) {
	entries := make(map[string]visit.ObservationEntry, len(req.Entries))
	for name, input := range req.Entries {
		entry, err := visit.NewObservationEntry(toRatings(input.TeacherMetrics), toRatings(input.StudentMetrics))
		if err != nil {
			return nil, fmt.Errorf("teacher %s: %w", name, err)
		}
		entries[name] = *entry
	}
	return s.advance(req.SessionID, wizard.ClassroomObservationPayload{Entries: entries})
}

// AdvanceInfrastructure validates and stores the monthly infrastructure
// screen.
func (s *SessionServiceImpl) AdvanceInfrastructure(ctx context.Context, req primary.InfrastructureRequest) (*primary.SessionView, error) {
	entries := make(map[string]visit.InfrastructureEntry, len(req.Entries))
	for subject, input := range req.Entries {
		entry, err := visit.NewInfrastructureEntry(
			visit.Availability(input.Materials),
			visit.Availability(input.Storage),
			visit.Condition(input.Condition),
		)
		if err != nil {
			return nil, fmt.Errorf("subject %s: %w", subject, err)
		}
		entries[subject] = *entry
	}
	return s.advance(req.SessionID, wizard.InfrastructurePayload{Entries: entries})
}

// AdvanceCommunity validates and stores the monthly community screen.
func (s *SessionServiceImpl) AdvanceCommunity(ctx context.Context, req primary.CommunityRequest) (*primary.SessionView, error) {
	entry, err := visit.NewCommunityEntry(req.ParentMeetings, req.ParentAttendancePct, req.CommunityEvents, req.SMCMeetings, req.Notes)
	if err != nil {
		return nil, err
	}
	return s.advance(req.SessionID, wizard.CommunityPayload{Entry: *entry})
}

// Retreat moves the session one step back, keeping collected data so the
// presentation layer can pre-populate the re-entered screen.
func (s *SessionServiceImpl) Retreat(ctx context.Context, sessionID string) (*primary.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess = wizard.Retreat(sess)
	s.sessions[sessionID] = sess
	return viewOf(sessionID, sess), nil
}

// AttachMedia uploads one file and attaches it to a teacher's
// observation in progress. Uploads are independent: a failure here
// leaves previously attached files in place.
func (s *SessionServiceImpl) AttachMedia(ctx context.Context, req primary.AttachMediaRequest) (*visit.MediaRef, error) {
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if sess.Step != wizard.StepClassroomObservation {
		return nil, &visit.ValidationError{Field: "media", Reason: "media can only be attached during classroom observation"}
	}
	if sess.Teachers == nil || !sess.Teachers.Contains(req.TeacherName) {
		return nil, &visit.ValidationError{Field: "teacher_name", Reason: fmt.Sprintf("%s is not a selected teacher", req.TeacherName)}
	}
	if len(req.Content) == 0 {
		return nil, &visit.ValidationError{Field: "file", Reason: "file is empty"}
	}

	// Object names carry the visit identity so files sort usefully in
	// the media store, mirroring how the stored rows are keyed.
	objectName := fmt.Sprintf("%s_%s_%s_%s",
		sess.Context.SchoolName,
		req.TeacherName,
		sess.Context.VisitDate.Format(visit.DateLayout),
		req.Filename,
	)

	obj, err := s.media.Upload(ctx, req.Content, objectName, req.ContentType)
	if err != nil {
		metrics.MediaUploadFailures.Inc()
		return nil, fmt.Errorf("failed to upload %s: %w", req.Filename, err)
	}

	ref, err := visit.NewMediaRef(visit.MediaKind(req.Kind), req.Filename, obj.ID, obj.Link)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok = s.sessions[req.SessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.PendingMedia == nil {
		sess.PendingMedia = make(map[string][]visit.MediaRef)
	}
	sess.PendingMedia[req.TeacherName] = append(sess.PendingMedia[req.TeacherName], *ref)
	s.sessions[req.SessionID] = sess

	metrics.MediaUploadsTotal.Inc()
	s.log.Info("attached media",
		zap.String("session", req.SessionID),
		zap.String("teacher", req.TeacherName),
		zap.String("storage_ref", ref.StorageRef))
	return ref, nil
}

// Submit assembles and persists the completed session, then resets it to
// a fresh run. Persistence appends exactly one row per call with no
// idempotency key: retrying a submission that already went through will
// produce a duplicate row.
func (s *SessionServiceImpl) Submit(ctx context.Context, sessionID string) (*primary.SubmitResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if sess.Step != wizard.StepSubmitted {
		return nil, &visit.ValidationError{Field: "session", Reason: fmt.Sprintf("form is not complete (at step %s)", sess.Step)}
	}

	record, err := visit.Assemble(sess.Context, sess.Teachers, sess.Observations, sess.Infrastructure, sess.Community, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to assemble record: %w", err)
	}

	if err := s.store.GetOrCreateTable(ctx, secondary.ObservationsTable); err != nil {
		return nil, fmt.Errorf("failed to prepare observations table: %w", err)
	}
	if err := s.store.AppendRow(ctx, secondary.ObservationsTable, record.Row()); err != nil {
		// The session stays intact so the user can retry.
		return nil, fmt.Errorf("failed to save observation: %w", err)
	}

	mediaCount := 0
	for _, name := range sess.Teachers.All() {
		mediaCount += len(sess.Observations[name].Media)
	}

	s.mu.Lock()
	s.sessions[sessionID] = wizard.NewSession()
	s.mu.Unlock()

	metrics.SubmissionsTotal.Inc()
	s.log.Info("submitted observation",
		zap.String("session", sessionID),
		zap.String("school", record.SchoolName),
		zap.String("visit_type", string(record.VisitType)),
		zap.Int("media_count", mediaCount))

	return &primary.SubmitResponse{
		Timestamp:  record.Timestamp.Format(visit.TimestampLayout),
		SchoolName: record.SchoolName,
		VisitType:  string(record.VisitType),
		MediaCount: mediaCount,
	}, nil
}

// Discard drops an in-progress session without persisting anything.
func (s *SessionServiceImpl) Discard(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// advance applies a payload to a session under the lock and stores the
// resulting session. Validation failures leave the stored session
// untouched.
func (s *SessionServiceImpl) advance(sessionID string, payload wizard.Payload) (*primary.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	next, err := wizard.Advance(sess, payload)
	if err != nil {
		return nil, err
	}
	s.sessions[sessionID] = next
	return viewOf(sessionID, next), nil
}

func viewOf(id string, sess wizard.Session) *primary.SessionView {
	page, total := sess.PageNumber()
	return &primary.SessionView{
		SessionID:      id,
		Step:           string(sess.Step),
		Page:           page,
		TotalPages:     total,
		Context:        sess.Context,
		Teachers:       sess.Teachers,
		Observations:   sess.Observations,
		Infrastructure: sess.Infrastructure,
		Community:      sess.Community,
		PendingMedia:   sess.PendingMedia,
	}
}

func toRatings(answers map[string]string) map[string]visit.Rating {
	out := make(map[string]visit.Rating, len(answers))
	for k, v := range answers {
		out[k] = visit.Rating(strings.TrimSpace(v))
	}
	return out
}

// Ensure SessionServiceImpl implements the interface
var _ primary.SessionService = (*SessionServiceImpl)(nil)
