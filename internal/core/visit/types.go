// Package visit contains the pure business logic for school visit
// observations. This is part of the Functional Core - no I/O, only
// value types and pure functions.
package visit

import "time"

// VisitType distinguishes the short daily check-in from the full
// monthly assessment. It is fixed when basic details are captured and
// decides whether the infrastructure and community sections apply.
type VisitType string

const (
	VisitDaily   VisitType = "Daily"
	VisitMonthly VisitType = "Monthly"
)

// Rating is the answer scale for classroom observation questions.
type Rating string

const (
	RatingYes       Rating = "Yes"
	RatingNo        Rating = "No"
	RatingSometimes Rating = "Sometimes"
)

// Availability is the answer scale for infrastructure material questions.
type Availability string

const (
	AvailabilityYes     Availability = "Yes"
	AvailabilityNo      Availability = "No"
	AvailabilityPartial Availability = "Partial"
)

// Condition is the answer scale for infrastructure material condition.
type Condition string

const (
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionPoor Condition = "Poor"
)

// MediaKind identifies the kind of uploaded media.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// TeacherMetricKeys are the fixed classroom observation questions about
// the teacher, in presentation order.
var TeacherMetricKeys = []string{
	"lesson_plan",
	"movement",
	"activities",
	"encouragement",
}

// StudentMetricKeys are the fixed classroom observation questions about
// the students, in presentation order.
var StudentMetricKeys = []string{
	"questions",
	"explanation",
	"involvement",
	"peer_learning",
}

// Subjects are the fixed subject names assessed in the infrastructure
// section of a monthly visit, in presentation order.
var Subjects = []string{
	"Mathematics",
	"Science",
	"Language",
	"Social Studies",
}

// VisitContext holds the basic details captured at the first wizard step.
// Immutable once set: a session that re-enters the first step starts over.
type VisitContext struct {
	PMName     string
	SchoolName string
	VisitDate  time.Time
	VisitType  VisitType
}

// TeacherSelection holds the teachers chosen for observation, split by
// training status. The union must be non-empty.
type TeacherSelection struct {
	Trained   []string
	Untrained []string
}

// All returns the selected teachers in canonical order: trained teachers
// first, then untrained, each in original selection order. This order is
// the serialization order of the persisted observation map.
func (s TeacherSelection) All() []string {
	all := make([]string, 0, len(s.Trained)+len(s.Untrained))
	all = append(all, s.Trained...)
	all = append(all, s.Untrained...)
	return all
}

// Contains reports whether name is among the selected teachers.
func (s TeacherSelection) Contains(name string) bool {
	for _, t := range s.All() {
		if t == name {
			return true
		}
	}
	return false
}

// MediaRef points at one uploaded photo or video in the media store.
type MediaRef struct {
	Kind        MediaKind `json:"type"`
	DisplayName string    `json:"name"`
	StorageRef  string    `json:"storage_ref"`
	Link        string    `json:"link"`
}

// ObservationEntry holds one teacher's classroom observation answers and
// the media captured during that observation.
type ObservationEntry struct {
	TeacherMetrics map[string]Rating
	StudentMetrics map[string]Rating
	Media          []MediaRef
}

// InfrastructureEntry holds the monthly infrastructure assessment for
// one subject.
type InfrastructureEntry struct {
	Materials Availability `json:"materials"`
	Storage   Availability `json:"storage"`
	Condition Condition    `json:"condition"`
}

// CommunityEntry holds the monthly community engagement figures.
type CommunityEntry struct {
	ParentMeetings      int    `json:"parent_meetings"`
	ParentAttendancePct int    `json:"parent_attendance"`
	CommunityEvents     int    `json:"community_events"`
	SMCMeetings         int    `json:"smc_meetings"`
	Notes               string `json:"notes"`
}
