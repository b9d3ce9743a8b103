package visit

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func monthlyContext(t *testing.T) *VisitContext {
	t.Helper()
	vctx, err := NewVisitContext("Anita Sharma", "GPS Rampur", validDate(), VisitMonthly)
	if err != nil {
		t.Fatalf("NewVisitContext failed: %v", err)
	}
	return vctx
}

func dailyContext(t *testing.T) *VisitContext {
	t.Helper()
	vctx, err := NewVisitContext("Anita Sharma", "GPS Rampur", validDate(), VisitDaily)
	if err != nil {
		t.Fatalf("NewVisitContext failed: %v", err)
	}
	return vctx
}

func sampleObservation(t *testing.T) ObservationEntry {
	t.Helper()
	entry, err := NewObservationEntry(
		allRatings(TeacherMetricKeys, RatingYes),
		allRatings(StudentMetricKeys, RatingSometimes),
	)
	if err != nil {
		t.Fatalf("NewObservationEntry failed: %v", err)
	}
	return *entry
}

func sampleInfrastructure(t *testing.T) map[string]InfrastructureEntry {
	t.Helper()
	out := make(map[string]InfrastructureEntry, len(Subjects))
	for _, subject := range Subjects {
		entry, err := NewInfrastructureEntry(AvailabilityYes, AvailabilityPartial, ConditionGood)
		if err != nil {
			t.Fatalf("NewInfrastructureEntry failed: %v", err)
		}
		out[subject] = *entry
	}
	return out
}

func sampleCommunity(t *testing.T) *CommunityEntry {
	t.Helper()
	entry, err := NewCommunityEntry(2, 75, 1, 1, "SMC active")
	if err != nil {
		t.Fatalf("NewCommunityEntry failed: %v", err)
	}
	return entry
}

func TestAssembleDailyForcesEmptySections(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"R. Verma"}, nil)
	observations := map[string]ObservationEntry{"R. Verma": sampleObservation(t)}

	// Infrastructure and community values are present but the visit is
	// daily, so they must not be persisted.
	record, err := Assemble(dailyContext(t), sel, observations, sampleInfrastructure(t), sampleCommunity(t), fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if record.InfrastructureJSON != "{}" {
		t.Errorf("infrastructure = %s, want {}", record.InfrastructureJSON)
	}
	if record.CommunityJSON != "{}" {
		t.Errorf("community = %s, want {}", record.CommunityJSON)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"R. Verma", "K. Singh"}, []string{"S. Devi"})
	observations := map[string]ObservationEntry{
		"R. Verma": sampleObservation(t),
		"K. Singh": sampleObservation(t),
		"S. Devi":  sampleObservation(t),
	}
	infra := sampleInfrastructure(t)
	community := sampleCommunity(t)

	first, err := Assemble(monthlyContext(t), sel, observations, infra, community, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	second, err := Assemble(monthlyContext(t), sel, observations, infra, community, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	firstRow := first.Row()
	secondRow := second.Row()
	for i := range firstRow {
		if firstRow[i] != secondRow[i] {
			t.Errorf("cell %d differs between assemblies:\n%s\n%s", i, firstRow[i], secondRow[i])
		}
	}
}

func TestAssembleObservationOrder(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"Zara", "Amir"}, []string{"Bela"})
	observations := map[string]ObservationEntry{
		"Zara": sampleObservation(t),
		"Amir": sampleObservation(t),
		"Bela": sampleObservation(t),
	}

	record, err := Assemble(dailyContext(t), sel, observations, nil, nil, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	// Trained teachers first in selection order, then untrained. Not
	// alphabetical.
	if got := topLevelKeys(t, record.ObservationsJSON); !equalStrings(got, []string{"Zara", "Amir", "Bela"}) {
		t.Errorf("observation keys = %v, want [Zara Amir Bela]", got)
	}
}

func TestAssembleInfrastructureSubjectOrder(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"R. Verma"}, nil)
	observations := map[string]ObservationEntry{"R. Verma": sampleObservation(t)}

	record, err := Assemble(monthlyContext(t), sel, observations, sampleInfrastructure(t), sampleCommunity(t), fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if got := topLevelKeys(t, record.InfrastructureJSON); !equalStrings(got, Subjects) {
		t.Errorf("infrastructure keys = %v, want %v", got, Subjects)
	}
}

func TestAssembleTeacherDetails(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"R. Verma"}, nil)
	observations := map[string]ObservationEntry{"R. Verma": sampleObservation(t)}

	record, err := Assemble(dailyContext(t), sel, observations, nil, nil, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := `{"trained_teachers":["R. Verma"],"untrained_teachers":[]}`
	if record.TeacherDetailsJSON != want {
		t.Errorf("teacher details = %s, want %s", record.TeacherDetailsJSON, want)
	}
}

func TestAssembleAggregatesMedia(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"Amir"}, []string{"Bela"})

	amir := sampleObservation(t)
	amir.Media = []MediaRef{{Kind: MediaPhoto, DisplayName: "a.jpg", StorageRef: "ref-a", Link: "file:///a.jpg"}}
	bela := sampleObservation(t)
	bela.Media = []MediaRef{{Kind: MediaVideo, DisplayName: "b.mp4", StorageRef: "ref-b", Link: "file:///b.mp4"}}

	record, err := Assemble(dailyContext(t), sel, map[string]ObservationEntry{"Amir": amir, "Bela": bela}, nil, nil, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	var media []MediaRef
	if err := json.Unmarshal([]byte(record.MediaLinksJSON), &media); err != nil {
		t.Fatalf("media links are not valid JSON: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("media count = %d, want 2", len(media))
	}
	if media[0].StorageRef != "ref-a" || media[1].StorageRef != "ref-b" {
		t.Errorf("media order = %s, %s; want ref-a, ref-b", media[0].StorageRef, media[1].StorageRef)
	}
}

func TestAssembleMissingObservation(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"Amir", "Bela"}, nil)
	observations := map[string]ObservationEntry{"Amir": sampleObservation(t)}

	_, err := Assemble(dailyContext(t), sel, observations, nil, nil, fixedNow())
	if err == nil {
		t.Fatal("expected error for missing observation")
	}
	if !strings.Contains(err.Error(), "Bela") {
		t.Errorf("error %q should name the missing teacher", err)
	}
}

func TestAssembleMissingInputs(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"Amir"}, nil)
	observations := map[string]ObservationEntry{"Amir": sampleObservation(t)}

	if _, err := Assemble(nil, sel, observations, nil, nil, fixedNow()); err == nil {
		t.Error("expected error for missing context")
	}
	if _, err := Assemble(dailyContext(t), nil, observations, nil, nil, fixedNow()); err == nil {
		t.Error("expected error for missing selection")
	}
	if _, err := Assemble(monthlyContext(t), sel, observations, sampleInfrastructure(t), nil, fixedNow()); err == nil {
		t.Error("expected error for missing community section on monthly visit")
	}
	if _, err := Assemble(monthlyContext(t), sel, observations, nil, sampleCommunity(t), fixedNow()); err == nil {
		t.Error("expected error for missing infrastructure on monthly visit")
	}
}

func TestRecordRowOrder(t *testing.T) {
	sel, _ := NewTeacherSelection([]string{"R. Verma"}, nil)
	observations := map[string]ObservationEntry{"R. Verma": sampleObservation(t)}

	record, err := Assemble(dailyContext(t), sel, observations, nil, nil, fixedNow())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	row := record.Row()
	if len(row) != 10 {
		t.Fatalf("row has %d cells, want 10", len(row))
	}
	if row[0] != "2026-03-14 10:30:00" {
		t.Errorf("timestamp cell = %s", row[0])
	}
	if row[1] != "Anita Sharma" || row[2] != "GPS Rampur" {
		t.Errorf("identity cells = %s, %s", row[1], row[2])
	}
	if row[3] != "2026-03-14" {
		t.Errorf("visit date cell = %s", row[3])
	}
	if row[4] != "Daily" {
		t.Errorf("visit type cell = %s", row[4])
	}
}

// topLevelKeys returns the top-level object keys of raw in document order.
func topLevelKeys(t *testing.T, raw string) []string {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		t.Fatalf("not a JSON object: %s", raw)
	}
	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("failed to read key: %v", err)
		}
		key, ok := tok.(string)
		if !ok {
			t.Fatalf("unexpected token %v", tok)
		}
		keys = append(keys, key)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			t.Fatalf("failed to skip value: %v", err)
		}
	}
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
