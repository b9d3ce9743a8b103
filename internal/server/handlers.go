package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/app"
	"github.com/example/fieldbook/internal/core/visit"
	"github.com/example/fieldbook/internal/ports/primary"
)

type basicDetailsBody struct {
	PMName     string `json:"pm_name" binding:"required"`
	SchoolName string `json:"school_name" binding:"required"`
	VisitDate  string `json:"visit_date" binding:"required"`
	VisitType  string `json:"visit_type" binding:"required"`
}

type teacherSelectionBody struct {
	Trained   []string `json:"trained"`
	Untrained []string `json:"untrained"`
}

type observationBody struct {
	Entries map[string]struct {
		TeacherMetrics map[string]string `json:"teacher_metrics"`
		StudentMetrics map[string]string `json:"student_metrics"`
	} `json:"entries"`
}

type infrastructureBody struct {
	Entries map[string]struct {
		Materials string `json:"materials"`
		Storage   string `json:"storage"`
		Condition string `json:"condition"`
	} `json:"entries"`
}

type communityBody struct {
	ParentMeetings      int    `json:"parent_meetings"`
	ParentAttendancePct int    `json:"parent_attendance"`
	CommunityEvents     int    `json:"community_events"`
	SMCMeetings         int    `json:"smc_meetings"`
	Notes               string `json:"notes"`
}

type addSchoolBody struct {
	SchoolName     string `json:"school_name" binding:"required"`
	ProgramManager string `json:"program_manager" binding:"required"`
}

type addTeacherBody struct {
	SchoolName  string `json:"school_name" binding:"required"`
	TeacherName string `json:"teacher_name" binding:"required"`
	Trained     bool   `json:"trained"`
}

// sessionViewBody is the JSON rendering of a session snapshot.
type sessionViewBody struct {
	SessionID      string                               `json:"session_id"`
	Step           string                               `json:"step"`
	Page           int                                  `json:"page"`
	TotalPages     int                                  `json:"total_pages"`
	Context        *visit.VisitContext                  `json:"context,omitempty"`
	Teachers       *visit.TeacherSelection              `json:"teachers,omitempty"`
	Observations   map[string]visit.ObservationEntry    `json:"observations,omitempty"`
	Infrastructure map[string]visit.InfrastructureEntry `json:"infrastructure,omitempty"`
	Community      *visit.CommunityEntry                `json:"community,omitempty"`
	PendingMedia   map[string][]visit.MediaRef          `json:"pending_media,omitempty"`
}

func renderView(view *primary.SessionView) sessionViewBody {
	return sessionViewBody{
		SessionID:      view.SessionID,
		Step:           view.Step,
		Page:           view.Page,
		TotalPages:     view.TotalPages,
		Context:        view.Context,
		Teachers:       view.Teachers,
		Observations:   view.Observations,
		Infrastructure: view.Infrastructure,
		Community:      view.Community,
		PendingMedia:   view.PendingMedia,
	}
}

// respondError maps service errors to HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	var verr *visit.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, app.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrTeacherExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) listProgramManagers(c *gin.Context) {
	names, err := s.directory.ListProgramManagers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program_managers": names})
}

func (s *Server) listSchools(c *gin.Context) {
	pm := c.Query("pm")
	if pm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pm query parameter required"})
		return
	}
	schools, err := s.directory.ListSchools(c.Request.Context(), pm)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schools": schools})
}

func (s *Server) addSchool(c *gin.Context) {
	var body addSchoolBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.directory.AddSchool(c.Request.Context(), primary.AddSchoolRequest{
		SchoolName:     body.SchoolName,
		ProgramManager: body.ProgramManager,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"school_name": body.SchoolName})
}

func (s *Server) listTeachers(c *gin.Context) {
	school := c.Query("school")
	if school == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school query parameter required"})
		return
	}
	roster, err := s.directory.ListTeachers(c.Request.Context(), school)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trained": roster.Trained, "untrained": roster.Untrained})
}

func (s *Server) addTeacher(c *gin.Context) {
	var body addTeacherBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.directory.AddTeacher(c.Request.Context(), primary.AddTeacherRequest{
		SchoolName:  body.SchoolName,
		TeacherName: body.TeacherName,
		Trained:     body.Trained,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"teacher_name": body.TeacherName})
}

func (s *Server) listObservations(c *gin.Context) {
	summaries, err := s.directory.ListObservations(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"observations": summaries, "count": len(summaries)})
}

func (s *Server) startSession(c *gin.Context) {
	view, err := s.sessions.Start(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderView(view))
}

func (s *Server) getSession(c *gin.Context) {
	view, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) discardSession(c *gin.Context) {
	if err := s.sessions.Discard(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) advanceBasicDetails(c *gin.Context) {
	var body basicDetailsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := s.sessions.AdvanceBasicDetails(c.Request.Context(), primary.BasicDetailsRequest{
		SessionID:  c.Param("id"),
		PMName:     body.PMName,
		SchoolName: body.SchoolName,
		VisitDate:  body.VisitDate,
		VisitType:  body.VisitType,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) advanceTeacherSelection(c *gin.Context) {
	var body teacherSelectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := s.sessions.AdvanceTeacherSelection(c.Request.Context(), primary.TeacherSelectionRequest{
		SessionID: c.Param("id"),
		Trained:   body.Trained,
		Untrained: body.Untrained,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) advanceClassroomObservation(c *gin.Context) {
	var body observationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := primary.ClassroomObservationRequest{
		SessionID: c.Param("id"),
		Entries:   make(map[string]primary.ObservationInput, len(body.Entries)),
	}
	for name, entry := range body.Entries {
		req.Entries[name] = primary.ObservationInput{
			TeacherMetrics: entry.TeacherMetrics,
			StudentMetrics: entry.StudentMetrics,
		}
	}
	view, err := s.sessions.AdvanceClassroomObservation(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) advanceInfrastructure(c *gin.Context) {
	var body infrastructureBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := primary.InfrastructureRequest{
		SessionID: c.Param("id"),
		Entries:   make(map[string]primary.InfrastructureInput, len(body.Entries)),
	}
	for subject, entry := range body.Entries {
		req.Entries[subject] = primary.InfrastructureInput{
			Materials: entry.Materials,
			Storage:   entry.Storage,
			Condition: entry.Condition,
		}
	}
	view, err := s.sessions.AdvanceInfrastructure(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) advanceCommunity(c *gin.Context) {
	var body communityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := s.sessions.AdvanceCommunity(c.Request.Context(), primary.CommunityRequest{
		SessionID:           c.Param("id"),
		ParentMeetings:      body.ParentMeetings,
		ParentAttendancePct: body.ParentAttendancePct,
		CommunityEvents:     body.CommunityEvents,
		SMCMeetings:         body.SMCMeetings,
		Notes:               body.Notes,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) retreat(c *gin.Context) {
	view, err := s.sessions.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

// attachMedia accepts a multipart upload: the file under "file", plus
// "teacher" and "kind" form fields.
func (s *Server) attachMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	teacher := c.PostForm("teacher")
	kind := c.PostForm("kind")

	file, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ref, err := s.sessions.AttachMedia(c.Request.Context(), primary.AttachMediaRequest{
		SessionID:   c.Param("id"),
		TeacherName: teacher,
		Kind:        kind,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ref)
}

func (s *Server) submit(c *gin.Context) {
	resp, err := s.sessions.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"timestamp":   resp.Timestamp,
		"school_name": resp.SchoolName,
		"visit_type":  resp.VisitType,
		"media_count": resp.MediaCount,
	})
}
