package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/core/visit"
	"github.com/example/fieldbook/internal/core/wizard"
	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/wire"
)

// ObserveCmd returns the observe command
func ObserveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "observe",
		Short: "Record a school visit observation",
		Long: `Walk through the visit observation form interactively: basic details,
teacher selection, per-teacher classroom observations, and for monthly
visits the infrastructure and community sections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runObserve()
		},
	}
}

func runObserve() error {
	ctx := context.Background()
	sessions := wire.SessionService()
	directory := wire.DirectoryService()
	reader := bufio.NewReader(os.Stdin)

	view, err := sessions.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	for view.Step != string(wizard.StepSubmitted) {
		printStepHeader(view)

		if view.Page > 1 && wantsBack(reader) {
			view, err = sessions.Retreat(ctx, view.SessionID)
			if err != nil {
				return fmt.Errorf("failed to go back: %w", err)
			}
			continue
		}

		var next *primary.SessionView
		var stepErr error
		switch wizard.Step(view.Step) {
		case wizard.StepBasicDetails:
			next, stepErr = collectBasicDetails(ctx, reader, sessions, directory, view.SessionID)
		case wizard.StepTeacherSelection:
			next, stepErr = collectTeacherSelection(ctx, reader, sessions, directory, view)
		case wizard.StepClassroomObservation:
			next, stepErr = collectObservations(ctx, reader, sessions, view)
		case wizard.StepInfrastructure:
			next, stepErr = collectInfrastructure(ctx, reader, sessions, view.SessionID)
		case wizard.StepCommunity:
			next, stepErr = collectCommunity(ctx, reader, sessions, view.SessionID)
		default:
			return fmt.Errorf("unexpected step %s", view.Step)
		}

		if stepErr != nil {
			// Validation problems re-run the same step with the session
			// untouched. Anything else aborts the run.
			var verr *visit.ValidationError
			if errors.As(stepErr, &verr) {
				fmt.Printf("%s %s\n\n", color.New(color.FgRed).Sprint("✗"), verr.Error())
				continue
			}
			return stepErr
		}
		view = next
	}

	fmt.Println()
	if !confirm(reader, "Submit this observation?") {
		if err := sessions.Discard(ctx, view.SessionID); err != nil {
			return err
		}
		fmt.Println("Discarded.")
		return nil
	}

	resp, err := sessions.Submit(ctx, view.SessionID)
	if err != nil {
		return fmt.Errorf("failed to submit observation: %w", err)
	}

	fmt.Printf("✓ Submitted %s visit for %s at %s", resp.VisitType, resp.SchoolName, resp.Timestamp)
	if resp.MediaCount > 0 {
		fmt.Printf(" (%d media files)", resp.MediaCount)
	}
	fmt.Println()
	return nil
}

// wantsBack offers the previous-page action before a step runs. Entered
// values on earlier pages are kept, so going back pre-populates them.
func wantsBack(reader *bufio.Reader) bool {
	value := prompt(reader, "Press Enter to continue, or 'b' to go back")
	return strings.EqualFold(value, "b")
}

func printStepHeader(view *primary.SessionView) {
	title := strings.ReplaceAll(view.Step, "_", " ")
	color.New(color.FgCyan, color.Bold).Printf("\n[%d/%d] %s\n", view.Page, view.TotalPages, title)
}

func collectBasicDetails(ctx context.Context, reader *bufio.Reader, sessions primary.SessionService, directory primary.DirectoryService, sessionID string) (*primary.SessionView, error) {
	pms, err := directory.ListProgramManagers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list program managers: %w", err)
	}
	if len(pms) > 0 {
		fmt.Printf("Known program managers: %s\n", strings.Join(pms, ", "))
	}
	pm := prompt(reader, "Program manager")

	schools, err := directory.ListSchools(ctx, pm)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	if len(schools) > 0 {
		fmt.Printf("Schools for %s: %s\n", pm, strings.Join(schools, ", "))
	}
	school := prompt(reader, "School")

	today := time.Now().Format(visit.DateLayout)
	date := promptDefault(reader, "Visit date (YYYY-MM-DD)", today)

	visitType := promptChoice(reader, "Visit type", []string{string(visit.VisitDaily), string(visit.VisitMonthly)})

	return sessions.AdvanceBasicDetails(ctx, primary.BasicDetailsRequest{
		SessionID:  sessionID,
		PMName:     pm,
		SchoolName: school,
		VisitDate:  date,
		VisitType:  visitType,
	})
}

func collectTeacherSelection(ctx context.Context, reader *bufio.Reader, sessions primary.SessionService, directory primary.DirectoryService, view *primary.SessionView) (*primary.SessionView, error) {
	roster, err := directory.ListTeachers(ctx, view.Context.SchoolName)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	if len(roster.Trained) > 0 {
		fmt.Printf("Trained teachers: %s\n", strings.Join(roster.Trained, ", "))
	}
	trained := promptList(reader, "Observe trained (comma-separated, empty for none)")

	if len(roster.Untrained) > 0 {
		fmt.Printf("Untrained teachers: %s\n", strings.Join(roster.Untrained, ", "))
	}
	untrained := promptList(reader, "Observe untrained (comma-separated, empty for none)")

	return sessions.AdvanceTeacherSelection(ctx, primary.TeacherSelectionRequest{
		SessionID: view.SessionID,
		Trained:   trained,
		Untrained: untrained,
	})
}

func collectObservations(ctx context.Context, reader *bufio.Reader, sessions primary.SessionService, view *primary.SessionView) (*primary.SessionView, error) {
	ratings := []string{string(visit.RatingYes), string(visit.RatingNo), string(visit.RatingSometimes)}
	entries := make(map[string]primary.ObservationInput)

	for _, teacher := range view.Teachers.All() {
		color.New(color.Bold).Printf("\nObserving %s\n", teacher)

		teacherMetrics := make(map[string]string, len(visit.TeacherMetricKeys))
		for _, key := range visit.TeacherMetricKeys {
			teacherMetrics[key] = promptChoice(reader, metricQuestion(key), ratings)
		}
		studentMetrics := make(map[string]string, len(visit.StudentMetricKeys))
		for _, key := range visit.StudentMetricKeys {
			studentMetrics[key] = promptChoice(reader, metricQuestion(key), ratings)
		}
		entries[teacher] = primary.ObservationInput{
			TeacherMetrics: teacherMetrics,
			StudentMetrics: studentMetrics,
		}

		for {
			path := prompt(reader, "Attach photo/video file (empty to continue)")
			if path == "" {
				break
			}
			if err := attachFile(ctx, sessions, view.SessionID, teacher, path); err != nil {
				fmt.Printf("%s %v\n", color.New(color.FgRed).Sprint("✗"), err)
				continue
			}
			fmt.Printf("✓ Attached %s\n", filepath.Base(path))
		}
	}

	return sessions.AdvanceClassroomObservation(ctx, primary.ClassroomObservationRequest{
		SessionID: view.SessionID,
		Entries:   entries,
	})
}

func attachFile(ctx context.Context, sessions primary.SessionService, sessionID, teacher, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	kind := visit.MediaPhoto
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if strings.HasPrefix(contentType, "video/") {
		kind = visit.MediaVideo
	}

	_, err = sessions.AttachMedia(ctx, primary.AttachMediaRequest{
		SessionID:   sessionID,
		TeacherName: teacher,
		Kind:        string(kind),
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	})
	return err
}

func collectInfrastructure(ctx context.Context, reader *bufio.Reader, sessions primary.SessionService, sessionID string) (*primary.SessionView, error) {
	availabilities := []string{string(visit.AvailabilityYes), string(visit.AvailabilityNo), string(visit.AvailabilityPartial)}
	conditions := []string{string(visit.ConditionGood), string(visit.ConditionFair), string(visit.ConditionPoor)}

	entries := make(map[string]primary.InfrastructureInput, len(visit.Subjects))
	for _, subject := range visit.Subjects {
		color.New(color.Bold).Printf("\n%s\n", subject)
		entries[subject] = primary.InfrastructureInput{
			Materials: promptChoice(reader, "Learning materials available", availabilities),
			Storage:   promptChoice(reader, "Storage available", availabilities),
			Condition: promptChoice(reader, "Material condition", conditions),
		}
	}

	return sessions.AdvanceInfrastructure(ctx, primary.InfrastructureRequest{
		SessionID: sessionID,
		Entries:   entries,
	})
}

func collectCommunity(ctx context.Context, reader *bufio.Reader, sessions primary.SessionService, sessionID string) (*primary.SessionView, error) {
	return sessions.AdvanceCommunity(ctx, primary.CommunityRequest{
		SessionID:           sessionID,
		ParentMeetings:      promptInt(reader, "Parent meetings held"),
		ParentAttendancePct: promptInt(reader, "Parent attendance (%)"),
		CommunityEvents:     promptInt(reader, "Community events"),
		SMCMeetings:         promptInt(reader, "SMC meetings"),
		Notes:               prompt(reader, "Notes (optional)"),
	})
}

// metricQuestion turns a metric key into a readable prompt.
func metricQuestion(key string) string {
	questions := map[string]string{
		"lesson_plan":   "Lesson plan prepared",
		"movement":      "Moves around the classroom",
		"activities":    "Uses learning activities",
		"encouragement": "Encourages students",
		"questions":     "Students ask questions",
		"explanation":   "Students explain concepts",
		"involvement":   "Students involved in activities",
		"peer_learning": "Students learn from peers",
	}
	if q, ok := questions[key]; ok {
		return q
	}
	return key
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptDefault(reader *bufio.Reader, label, def string) string {
	fmt.Printf("%s [%s]: ", label, def)
	line, _ := reader.ReadString('\n')
	value := strings.TrimSpace(line)
	if value == "" {
		return def
	}
	return value
}

func promptList(reader *bufio.Reader, label string) []string {
	raw := prompt(reader, label)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func promptChoice(reader *bufio.Reader, label string, options []string) string {
	for {
		value := prompt(reader, fmt.Sprintf("%s (%s)", label, strings.Join(options, "/")))
		for _, opt := range options {
			if strings.EqualFold(value, opt) {
				return opt
			}
		}
		fmt.Printf("Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

func promptInt(reader *bufio.Reader, label string) int {
	for {
		value := prompt(reader, label)
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Println("Please enter a whole number.")
	}
}

func confirm(reader *bufio.Reader, label string) bool {
	value := prompt(reader, fmt.Sprintf("%s (y/n)", label))
	return strings.EqualFold(value, "y") || strings.EqualFold(value, "yes")
}
