package wizard

import (
	"fmt"

	"github.com/example/fieldbook/internal/core/visit"
)

// Payload is the validated data collected on one wizard screen. Each
// payload type knows which step it belongs to; Advance rejects a payload
// applied at any other step.
type Payload interface {
	step() Step
}

// BasicDetailsPayload carries the first screen's entities.
type BasicDetailsPayload struct {
	Context visit.VisitContext
}

// TeacherSelectionPayload carries the second screen's entities.
type TeacherSelectionPayload struct {
	Selection visit.TeacherSelection
}

// ClassroomObservationPayload carries one observation entry per
// selected teacher.
type ClassroomObservationPayload struct {
	Entries map[string]visit.ObservationEntry
}

// InfrastructurePayload carries one assessment per fixed subject.
type InfrastructurePayload struct {
	Entries map[string]visit.InfrastructureEntry
}

// CommunityPayload carries the community engagement screen.
type CommunityPayload struct {
	Entry visit.CommunityEntry
}

func (BasicDetailsPayload) step() Step         { return StepBasicDetails }
func (TeacherSelectionPayload) step() Step     { return StepTeacherSelection }
func (ClassroomObservationPayload) step() Step { return StepClassroomObservation }
func (InfrastructurePayload) step() Step       { return StepInfrastructure }
func (CommunityPayload) step() Step            { return StepCommunity }

// Advance validates the payload against the session's current step,
// stores it, and moves the session to the next step on its path. On
// validation failure the returned session is unchanged and still at the
// same step, so the user can correct the input and retry.
func Advance(s Session, p Payload) (Session, error) {
	s = Normalize(s)
	if s.Step == StepSubmitted {
		return s, fmt.Errorf("session is already complete and awaiting submission")
	}
	if p.step() != s.Step {
		return s, fmt.Errorf("cannot apply %s payload while at step %s", p.step(), s.Step)
	}

	next := s
	switch payload := p.(type) {
	case BasicDetailsPayload:
		// Re-entering the first step starts the session over: the visit
		// type chosen here fixes the path, so downstream sections
		// collected under a previous choice are discarded.
		ctx := payload.Context
		next.Context = &ctx
		next.Teachers = nil
		next.Observations = nil
		next.Infrastructure = nil
		next.Community = nil
		next.PendingMedia = nil

	case TeacherSelectionPayload:
		sel := payload.Selection
		next.Teachers = &sel
		next.Observations = pruneObservations(s.Observations, sel)
		next.PendingMedia = pruneMedia(s.PendingMedia, sel)

	case ClassroomObservationPayload:
		if s.Teachers == nil {
			return s, &visit.ValidationError{Field: "teachers", Reason: "no teachers have been selected"}
		}
		entries, err := coverSelection(*s.Teachers, payload.Entries, s.PendingMedia)
		if err != nil {
			return s, err
		}
		next.Observations = entries
		next.PendingMedia = nil

	case InfrastructurePayload:
		entries := make(map[string]visit.InfrastructureEntry, len(visit.Subjects))
		for _, subject := range visit.Subjects {
			entry, ok := payload.Entries[subject]
			if !ok {
				return s, &visit.ValidationError{Field: "infrastructure", Reason: fmt.Sprintf("missing assessment for %s", subject)}
			}
			entries[subject] = entry
		}
		for subject := range payload.Entries {
			if _, ok := entries[subject]; !ok {
				return s, &visit.ValidationError{Field: "infrastructure", Reason: fmt.Sprintf("unknown subject %s", subject)}
			}
		}
		next.Infrastructure = entries

	case CommunityPayload:
		entry := payload.Entry
		next.Community = &entry

	default:
		return s, fmt.Errorf("unknown payload type for step %s", s.Step)
	}

	path := Path(next.VisitType())
	idx := indexOn(path, next.Step)
	next.Step = path[idx+1]
	return next, nil
}

// Retreat moves the session to the previous step on its path without
// clearing that step's collected data, so re-entered screens
// pre-populate with the previously chosen values. At the first step it
// is a no-op.
func Retreat(s Session) Session {
	s = Normalize(s)
	path := Path(s.VisitType())
	idx := indexOn(path, s.Step)
	if idx <= 0 {
		return s
	}
	s.Step = path[idx-1]
	return s
}

// coverSelection checks that entries cover exactly the selected teachers
// and folds any media attached during the step into each teacher's entry.
func coverSelection(sel visit.TeacherSelection, entries map[string]visit.ObservationEntry, pending map[string][]visit.MediaRef) (map[string]visit.ObservationEntry, error) {
	out := make(map[string]visit.ObservationEntry, len(entries))
	for _, name := range sel.All() {
		entry, ok := entries[name]
		if !ok {
			return nil, &visit.ValidationError{Field: "observations", Reason: fmt.Sprintf("missing observation for teacher %s", name)}
		}
		if refs := pending[name]; len(refs) > 0 {
			entry.Media = append(entry.Media, refs...)
		}
		out[name] = entry
	}
	for name := range entries {
		if _, ok := out[name]; !ok {
			return nil, &visit.ValidationError{Field: "observations", Reason: fmt.Sprintf("observation for %s, who is not a selected teacher", name)}
		}
	}
	return out, nil
}

func pruneObservations(observations map[string]visit.ObservationEntry, sel visit.TeacherSelection) map[string]visit.ObservationEntry {
	if observations == nil {
		return nil
	}
	out := make(map[string]visit.ObservationEntry)
	for _, name := range sel.All() {
		if entry, ok := observations[name]; ok {
			out[name] = entry
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func pruneMedia(pending map[string][]visit.MediaRef, sel visit.TeacherSelection) map[string][]visit.MediaRef {
	if pending == nil {
		return nil
	}
	out := make(map[string][]visit.MediaRef)
	for _, name := range sel.All() {
		if refs, ok := pending[name]; ok {
			out[name] = refs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
