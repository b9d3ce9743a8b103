package visit

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a rejected payload field. It is returned by the
// entity constructors so callers can distinguish bad input from remote
// failures and re-render the offending step instead of aborting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewVisitContext validates and builds the basic details entity.
func NewVisitContext(pmName, schoolName string, visitDate time.Time, visitType VisitType) (*VisitContext, error) {
	if strings.TrimSpace(pmName) == "" {
		return nil, &ValidationError{Field: "pm_name", Reason: "program manager name is required"}
	}
	if strings.TrimSpace(schoolName) == "" {
		return nil, &ValidationError{Field: "school_name", Reason: "school name is required"}
	}
	if visitDate.IsZero() {
		return nil, &ValidationError{Field: "visit_date", Reason: "visit date is required"}
	}
	if visitType != VisitDaily && visitType != VisitMonthly {
		return nil, &ValidationError{Field: "visit_type", Reason: fmt.Sprintf("must be %s or %s", VisitDaily, VisitMonthly)}
	}
	return &VisitContext{
		PMName:     strings.TrimSpace(pmName),
		SchoolName: strings.TrimSpace(schoolName),
		VisitDate:  visitDate,
		VisitType:  visitType,
	}, nil
}

// NewTeacherSelection validates and builds the teacher selection entity.
// At least one teacher must be selected overall; blank and duplicate
// names are rejected.
func NewTeacherSelection(trained, untrained []string) (*TeacherSelection, error) {
	if len(trained)+len(untrained) == 0 {
		return nil, &ValidationError{Field: "teachers", Reason: "select at least one teacher"}
	}
	seen := make(map[string]bool)
	clean := func(field string, names []string) ([]string, error) {
		out := make([]string, 0, len(names))
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" {
				return nil, &ValidationError{Field: field, Reason: "teacher name cannot be empty"}
			}
			key := strings.ToLower(n)
			if seen[key] {
				return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("teacher %s selected twice", n)}
			}
			seen[key] = true
			out = append(out, n)
		}
		return out, nil
	}

	t, err := clean("trained_teachers", trained)
	if err != nil {
		return nil, err
	}
	u, err := clean("untrained_teachers", untrained)
	if err != nil {
		return nil, err
	}
	return &TeacherSelection{Trained: t, Untrained: u}, nil
}

// NewObservationEntry validates and builds one teacher's classroom
// observation. Every fixed metric key must be answered with a known rating.
func NewObservationEntry(teacherMetrics, studentMetrics map[string]Rating) (*ObservationEntry, error) {
	tm, err := checkMetrics("teacher_metrics", TeacherMetricKeys, teacherMetrics)
	if err != nil {
		return nil, err
	}
	sm, err := checkMetrics("student_metrics", StudentMetricKeys, studentMetrics)
	if err != nil {
		return nil, err
	}
	return &ObservationEntry{TeacherMetrics: tm, StudentMetrics: sm}, nil
}

func checkMetrics(field string, keys []string, answers map[string]Rating) (map[string]Rating, error) {
	out := make(map[string]Rating, len(keys))
	for _, key := range keys {
		r, ok := answers[key]
		if !ok {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("missing answer for %s", key)}
		}
		if r != RatingYes && r != RatingNo && r != RatingSometimes {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("answer for %s must be %s, %s or %s", key, RatingYes, RatingNo, RatingSometimes)}
		}
		out[key] = r
	}
	for key := range answers {
		if _, ok := out[key]; !ok {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("unknown metric %s", key)}
		}
	}
	return out, nil
}

// NewInfrastructureEntry validates and builds one subject's
// infrastructure assessment.
func NewInfrastructureEntry(materials, storage Availability, condition Condition) (*InfrastructureEntry, error) {
	okAvail := func(a Availability) bool {
		return a == AvailabilityYes || a == AvailabilityNo || a == AvailabilityPartial
	}
	if !okAvail(materials) {
		return nil, &ValidationError{Field: "materials", Reason: fmt.Sprintf("must be %s, %s or %s", AvailabilityYes, AvailabilityNo, AvailabilityPartial)}
	}
	if !okAvail(storage) {
		return nil, &ValidationError{Field: "storage", Reason: fmt.Sprintf("must be %s, %s or %s", AvailabilityYes, AvailabilityNo, AvailabilityPartial)}
	}
	if condition != ConditionGood && condition != ConditionFair && condition != ConditionPoor {
		return nil, &ValidationError{Field: "condition", Reason: fmt.Sprintf("must be %s, %s or %s", ConditionGood, ConditionFair, ConditionPoor)}
	}
	return &InfrastructureEntry{Materials: materials, Storage: storage, Condition: condition}, nil
}

// NewCommunityEntry validates and builds the community engagement entity.
func NewCommunityEntry(parentMeetings, parentAttendancePct, communityEvents, smcMeetings int, notes string) (*CommunityEntry, error) {
	if parentMeetings < 0 {
		return nil, &ValidationError{Field: "parent_meetings", Reason: "cannot be negative"}
	}
	if parentAttendancePct < 0 || parentAttendancePct > 100 {
		return nil, &ValidationError{Field: "parent_attendance", Reason: "must be between 0 and 100"}
	}
	if communityEvents < 0 {
		return nil, &ValidationError{Field: "community_events", Reason: "cannot be negative"}
	}
	if smcMeetings < 0 {
		return nil, &ValidationError{Field: "smc_meetings", Reason: "cannot be negative"}
	}
	return &CommunityEntry{
		ParentMeetings:      parentMeetings,
		ParentAttendancePct: parentAttendancePct,
		CommunityEvents:     communityEvents,
		SMCMeetings:         smcMeetings,
		Notes:               notes,
	}, nil
}

// NewMediaRef validates and builds a reference to an uploaded file.
func NewMediaRef(kind MediaKind, displayName, storageRef, link string) (*MediaRef, error) {
	if kind != MediaPhoto && kind != MediaVideo {
		return nil, &ValidationError{Field: "media_kind", Reason: fmt.Sprintf("must be %s or %s", MediaPhoto, MediaVideo)}
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, &ValidationError{Field: "media_name", Reason: "display name is required"}
	}
	if strings.TrimSpace(storageRef) == "" {
		return nil, &ValidationError{Field: "media_storage_ref", Reason: "storage reference is required"}
	}
	return &MediaRef{Kind: kind, DisplayName: displayName, StorageRef: storageRef, Link: link}, nil
}
