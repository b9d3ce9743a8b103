package visit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp layouts used in persisted rows. These match the layouts the
// record tables have always carried, so they are part of the storage
// contract.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// Record is the flattened, serialized observation written once per
// completed wizard run. The JSON fields are deterministic: assembling
// the same inputs twice yields byte-identical strings.
type Record struct {
	Timestamp  time.Time
	PMName     string
	SchoolName string
	VisitDate  time.Time
	VisitType  VisitType

	TeacherDetailsJSON string
	ObservationsJSON   string
	InfrastructureJSON string
	CommunityJSON      string
	MediaLinksJSON     string
}

// Row returns the record's cells in Observations table column order.
func (r *Record) Row() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.PMName,
		r.SchoolName,
		r.VisitDate.Format(DateLayout),
		string(r.VisitType),
		r.TeacherDetailsJSON,
		r.ObservationsJSON,
		r.InfrastructureJSON,
		r.CommunityJSON,
		r.MediaLinksJSON,
	}
}

type teacherDetailsJSON struct {
	TrainedTeachers   []string `json:"trained_teachers"`
	UntrainedTeachers []string `json:"untrained_teachers"`
}

type observationJSON struct {
	TeacherMetrics map[string]Rating `json:"teacher_metrics"`
	StudentMetrics map[string]Rating `json:"student_metrics"`
}

// Assemble combines the session's collected entities into a Record.
// Pure function: no side effects, no I/O; the caller supplies the clock.
//
// Daily visits serialize the infrastructure and community sections as
// empty objects even if values were somehow collected - the visit type
// decides what is persisted, not what the session happens to hold.
func Assemble(
	vctx *VisitContext,
	sel *TeacherSelection,
	observations map[string]ObservationEntry,
	infrastructure map[string]InfrastructureEntry,
	community *CommunityEntry,
	now time.Time,
) (*Record, error) {
	if vctx == nil {
		return nil, fmt.Errorf("cannot assemble record: visit context is missing")
	}
	if sel == nil || len(sel.All()) == 0 {
		return nil, fmt.Errorf("cannot assemble record: no teachers selected")
	}

	details, err := json.Marshal(teacherDetailsJSON{
		TrainedTeachers:   emptyIfNil(sel.Trained),
		UntrainedTeachers: emptyIfNil(sel.Untrained),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize teacher details: %w", err)
	}

	obsJSON, media, err := serializeObservations(sel, observations)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Timestamp:          now,
		PMName:             vctx.PMName,
		SchoolName:         vctx.SchoolName,
		VisitDate:          vctx.VisitDate,
		VisitType:          vctx.VisitType,
		TeacherDetailsJSON: string(details),
		ObservationsJSON:   obsJSON,
		InfrastructureJSON: "{}",
		CommunityJSON:      "{}",
		MediaLinksJSON:     media,
	}

	if vctx.VisitType == VisitMonthly {
		infraJSON, err := serializeInfrastructure(infrastructure)
		if err != nil {
			return nil, err
		}
		if community == nil {
			return nil, fmt.Errorf("cannot assemble record: community section is missing for monthly visit")
		}
		communityJSON, err := json.Marshal(community)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize community data: %w", err)
		}
		record.InfrastructureJSON = infraJSON
		record.CommunityJSON = string(communityJSON)
	}

	return record, nil
}

// serializeObservations builds the observations object keyed by teacher
// name in canonical selection order, plus the aggregated media list in
// the same order. encoding/json sorts map keys, so the inner metric maps
// are deterministic; only the top-level teacher order needs hand-building.
func serializeObservations(sel *TeacherSelection, observations map[string]ObservationEntry) (string, string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	media := make([]MediaRef, 0)

	for i, name := range sel.All() {
		entry, ok := observations[name]
		if !ok {
			return "", "", fmt.Errorf("cannot assemble record: no observation recorded for teacher %s", name)
		}
		key, err := json.Marshal(name)
		if err != nil {
			return "", "", fmt.Errorf("failed to serialize observation key: %w", err)
		}
		val, err := json.Marshal(observationJSON{
			TeacherMetrics: entry.TeacherMetrics,
			StudentMetrics: entry.StudentMetrics,
		})
		if err != nil {
			return "", "", fmt.Errorf("failed to serialize observation for %s: %w", name, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		media = append(media, entry.Media...)
	}
	buf.WriteByte('}')

	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize media links: %w", err)
	}
	return buf.String(), string(mediaJSON), nil
}

// serializeInfrastructure builds the infrastructure object in fixed
// subject order. Every subject must be assessed on a monthly visit.
func serializeInfrastructure(infrastructure map[string]InfrastructureEntry) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, subject := range Subjects {
		entry, ok := infrastructure[subject]
		if !ok {
			return "", fmt.Errorf("cannot assemble record: no infrastructure assessment for %s", subject)
		}
		key, err := json.Marshal(subject)
		if err != nil {
			return "", fmt.Errorf("failed to serialize infrastructure key: %w", err)
		}
		val, err := json.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("failed to serialize infrastructure for %s: %w", subject, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

func emptyIfNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
