// Package wizard contains the pure state machine driving the visit
// observation form. This is part of the Functional Core - no I/O, only
// pure functions over an explicit Session value.
package wizard

import "github.com/example/fieldbook/internal/core/visit"

// Step identifies one screen of the wizard.
type Step string

const (
	StepBasicDetails         Step = "basic_details"
	StepTeacherSelection     Step = "teacher_selection"
	StepClassroomObservation Step = "classroom_observation"
	StepInfrastructure       Step = "infrastructure"
	StepCommunity            Step = "community"
	// StepSubmitted is the terminal step: all sections for the chosen
	// visit type are collected and the session is ready to persist.
	StepSubmitted Step = "submitted"
)

// Session is the explicit state of one in-progress wizard run. It is a
// value: transitions take a Session and return a new one, so there is no
// ambient shared state and every transition is independently testable.
type Session struct {
	Step Step

	Context        *visit.VisitContext
	Teachers       *visit.TeacherSelection
	Observations   map[string]visit.ObservationEntry
	Infrastructure map[string]visit.InfrastructureEntry
	Community      *visit.CommunityEntry

	// PendingMedia holds uploads attached during the classroom step,
	// keyed by teacher name, before they are folded into the teacher's
	// observation entry when the step advances.
	PendingMedia map[string][]visit.MediaRef
}

// NewSession returns a fresh session at the first step.
func NewSession() Session {
	return Session{Step: StepBasicDetails}
}

// VisitType returns the session's visit type, defaulting to Daily until
// basic details are captured (matching the form's initial path length).
func (s Session) VisitType() visit.VisitType {
	if s.Context == nil {
		return visit.VisitDaily
	}
	return s.Context.VisitType
}

// Path returns the ordered steps for the given visit type. The
// infrastructure and community steps appear only on monthly visits.
func Path(t visit.VisitType) []Step {
	if t == visit.VisitMonthly {
		return []Step{
			StepBasicDetails,
			StepTeacherSelection,
			StepClassroomObservation,
			StepInfrastructure,
			StepCommunity,
			StepSubmitted,
		}
	}
	return []Step{
		StepBasicDetails,
		StepTeacherSelection,
		StepClassroomObservation,
		StepSubmitted,
	}
}

// PageNumber returns the 1-based position of the session's current step
// on its path, and the number of data-entry pages on that path. The
// terminal submitted step is not a page.
func (s Session) PageNumber() (page, total int) {
	path := Path(s.VisitType())
	total = len(path) - 1
	for i, step := range path {
		if step == s.Step {
			if i >= total {
				return total, total
			}
			return i + 1, total
		}
	}
	return 1, total
}

// indexOn returns step's position on path, or -1 when the step is not
// on the path at all (e.g. infrastructure on a daily visit).
func indexOn(path []Step, step Step) int {
	for i, s := range path {
		if s == step {
			return i
		}
	}
	return -1
}
