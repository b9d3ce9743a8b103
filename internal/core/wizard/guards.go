package wizard

import (
	"fmt"

	"github.com/example/fieldbook/internal/core/visit"
)

// GuardResult is the outcome of a step-entry guard. When entry is not
// allowed it names the step the session should be redirected to instead
// of erroring out, preserving whatever the user already entered.
type GuardResult struct {
	Allowed    bool
	RedirectTo Step
	Reason     string
}

// CanEnter evaluates whether the session may be at the given step.
// A step is enterable only when every prerequisite entity exists and the
// step lies on the path for the session's visit type. When it is not,
// the result redirects to the earliest unsatisfied step.
func CanEnter(s Session, step Step) GuardResult {
	path := Path(s.VisitType())
	if indexOn(path, step) < 0 {
		return GuardResult{
			Allowed:    false,
			RedirectTo: StepClassroomObservation,
			Reason:     fmt.Sprintf("step %s is not part of a %s visit", step, s.VisitType()),
		}
	}

	switch step {
	case StepBasicDetails:
		return GuardResult{Allowed: true}
	case StepTeacherSelection:
		if s.Context == nil {
			return redirect(StepBasicDetails, "basic details have not been filled in")
		}
	case StepClassroomObservation:
		if s.Context == nil {
			return redirect(StepBasicDetails, "basic details have not been filled in")
		}
		if s.Teachers == nil {
			return redirect(StepTeacherSelection, "no teachers have been selected")
		}
	case StepInfrastructure:
		if s.Context == nil {
			return redirect(StepBasicDetails, "basic details have not been filled in")
		}
		if s.Teachers == nil {
			return redirect(StepTeacherSelection, "no teachers have been selected")
		}
		if s.Observations == nil {
			return redirect(StepClassroomObservation, "classroom observations have not been recorded")
		}
	case StepCommunity:
		if s.Context == nil {
			return redirect(StepBasicDetails, "basic details have not been filled in")
		}
		if s.Teachers == nil {
			return redirect(StepTeacherSelection, "no teachers have been selected")
		}
		if s.Observations == nil {
			return redirect(StepClassroomObservation, "classroom observations have not been recorded")
		}
		if s.Infrastructure == nil {
			return redirect(StepInfrastructure, "infrastructure has not been assessed")
		}
	case StepSubmitted:
		if !s.Complete() {
			return redirect(StepBasicDetails, "session is not complete")
		}
	}
	return GuardResult{Allowed: true}
}

// Normalize redirects a session sitting on an unreachable step back to
// the earliest step whose prerequisites are satisfied, following guard
// redirects until one lands on an enterable step. An off-path step
// redirects onto the path first and the redirect target's own guard is
// then re-checked. Collected data is kept so re-entered steps
// pre-populate.
func Normalize(s Session) Session {
	for range Path(s.VisitType()) {
		guard := CanEnter(s, s.Step)
		if guard.Allowed {
			return s
		}
		s.Step = guard.RedirectTo
	}
	s.Step = StepBasicDetails
	return s
}

// Complete reports whether every section required by the visit type has
// been collected.
func (s Session) Complete() bool {
	if s.Context == nil || s.Teachers == nil || s.Observations == nil {
		return false
	}
	for _, name := range s.Teachers.All() {
		if _, ok := s.Observations[name]; !ok {
			return false
		}
	}
	if s.Context.VisitType == visit.VisitMonthly {
		if s.Infrastructure == nil || s.Community == nil {
			return false
		}
	}
	return true
}

func redirect(to Step, reason string) GuardResult {
	return GuardResult{Allowed: false, RedirectTo: to, Reason: reason}
}
