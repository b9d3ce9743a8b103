package wizard

import (
	"testing"

	"github.com/example/fieldbook/internal/core/visit"
)

func TestCanEnterRedirects(t *testing.T) {
	vctx := testContext(t, visit.VisitMonthly)
	sel := testSelection(t, []string{"A"}, nil)
	observations := map[string]visit.ObservationEntry{"A": testObservation(t)}

	tests := []struct {
		name     string
		session  Session
		step     Step
		allowed  bool
		redirect Step
	}{
		{
			name:    "basic details always enterable",
			session: Session{Step: StepBasicDetails},
			step:    StepBasicDetails,
			allowed: true,
		},
		{
			name:     "teacher selection without context",
			session:  Session{Step: StepTeacherSelection},
			step:     StepTeacherSelection,
			redirect: StepBasicDetails,
		},
		{
			name:     "classroom without teachers",
			session:  Session{Step: StepClassroomObservation, Context: &vctx},
			step:     StepClassroomObservation,
			redirect: StepTeacherSelection,
		},
		{
			name:     "infrastructure without observations",
			session:  Session{Step: StepInfrastructure, Context: &vctx, Teachers: &sel},
			step:     StepInfrastructure,
			redirect: StepClassroomObservation,
		},
		{
			name:     "community without infrastructure",
			session:  Session{Step: StepCommunity, Context: &vctx, Teachers: &sel, Observations: observations},
			step:     StepCommunity,
			redirect: StepInfrastructure,
		},
		{
			name:    "infrastructure with prerequisites",
			session: Session{Step: StepInfrastructure, Context: &vctx, Teachers: &sel, Observations: observations},
			step:    StepInfrastructure,
			allowed: true,
		},
		{
			name:     "submitted while incomplete",
			session:  Session{Step: StepSubmitted, Context: &vctx, Teachers: &sel, Observations: observations},
			step:     StepSubmitted,
			redirect: StepBasicDetails,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := CanEnter(tt.session, tt.step)
			if guard.Allowed != tt.allowed {
				t.Fatalf("Allowed = %v, want %v (%s)", guard.Allowed, tt.allowed, guard.Reason)
			}
			if !tt.allowed && guard.RedirectTo != tt.redirect {
				t.Errorf("RedirectTo = %s, want %s", guard.RedirectTo, tt.redirect)
			}
		})
	}
}

func TestCanEnterOffPathStep(t *testing.T) {
	vctx := testContext(t, visit.VisitDaily)
	s := Session{Step: StepInfrastructure, Context: &vctx}

	guard := CanEnter(s, StepInfrastructure)
	if guard.Allowed {
		t.Fatal("infrastructure should not be enterable on a daily visit")
	}
	if guard.RedirectTo != StepClassroomObservation {
		t.Errorf("RedirectTo = %s, want %s", guard.RedirectTo, StepClassroomObservation)
	}
}

func TestNormalizeLandsOnEnterableStep(t *testing.T) {
	vctx := testContext(t, visit.VisitDaily)

	tests := []struct {
		name     string
		session  Session
		expected Step
	}{
		{
			name:     "off path without teachers",
			session:  Session{Step: StepInfrastructure, Context: &vctx},
			expected: StepTeacherSelection,
		},
		{
			name:     "off path without context",
			session:  Session{Step: StepInfrastructure},
			expected: StepBasicDetails,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.session)
			if got.Step != tt.expected {
				t.Fatalf("step = %s, want %s", got.Step, tt.expected)
			}
			if guard := CanEnter(got, got.Step); !guard.Allowed {
				t.Errorf("normalized step %s is not enterable: %s", got.Step, guard.Reason)
			}
		})
	}
}

func TestNormalizeKeepsData(t *testing.T) {
	vctx := testContext(t, visit.VisitMonthly)
	s := Session{Step: StepCommunity, Context: &vctx}

	normalized := Normalize(s)
	if normalized.Step != StepTeacherSelection {
		t.Errorf("step = %s, want %s", normalized.Step, StepTeacherSelection)
	}
	if normalized.Context == nil {
		t.Error("normalize should keep collected data")
	}
}

func TestPageNumber(t *testing.T) {
	vctxMonthly := testContext(t, visit.VisitMonthly)

	tests := []struct {
		name    string
		session Session
		page    int
		total   int
	}{
		{name: "fresh session", session: NewSession(), page: 1, total: 3},
		{name: "monthly basic details", session: Session{Step: StepBasicDetails, Context: &vctxMonthly}, page: 1, total: 5},
		{name: "monthly community", session: Session{Step: StepCommunity, Context: &vctxMonthly}, page: 5, total: 5},
		{name: "monthly submitted", session: Session{Step: StepSubmitted, Context: &vctxMonthly}, page: 5, total: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := tt.session.PageNumber()
			if page != tt.page || total != tt.total {
				t.Errorf("PageNumber() = %d/%d, want %d/%d", page, total, tt.page, tt.total)
			}
		})
	}
}
