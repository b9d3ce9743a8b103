package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/wire"
)

// TeacherCmd returns the teacher command
func TeacherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Manage teachers",
		Long:  `Register and list the teachers at each school.`,
	}

	cmd.AddCommand(teacherAddCmd())
	cmd.AddCommand(teacherListCmd())

	return cmd
}

func teacherAddCmd() *cobra.Command {
	var school string
	var trained bool

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a new teacher at a school",
		Long: `Register a new teacher at a school.

Examples:
  fieldbook teacher add "R. Verma" --school "GPS Rampur" --trained
  fieldbook teacher add "S. Devi" --school "GPS Rampur"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name := args[0]

			err := wire.DirectoryService().AddTeacher(ctx, primary.AddTeacherRequest{
				SchoolName:  school,
				TeacherName: name,
				Trained:     trained,
			})
			if err != nil {
				return fmt.Errorf("failed to add teacher: %w", err)
			}

			status := "untrained"
			if trained {
				status = "trained"
			}
			fmt.Printf("✓ Added teacher %s at %s (%s)\n", name, school, status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&school, "school", "s", "", "School name (required)")
	cmd.Flags().BoolVarP(&trained, "trained", "t", false, "Teacher has completed training")
	cmd.MarkFlagRequired("school")

	return cmd
}

func teacherListCmd() *cobra.Command {
	var school string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a school's teachers by training status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			roster, err := wire.DirectoryService().ListTeachers(ctx, school)
			if err != nil {
				return fmt.Errorf("failed to list teachers: %w", err)
			}

			if len(roster.Trained) == 0 && len(roster.Untrained) == 0 {
				fmt.Printf("No teachers found at %s.\n", school)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TEACHER\tTRAINED")
			fmt.Fprintln(w, "-------\t-------")
			for _, t := range roster.Trained {
				fmt.Fprintf(w, "%s\tyes\n", t)
			}
			for _, t := range roster.Untrained {
				fmt.Fprintf(w, "%s\tno\n", t)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&school, "school", "s", "", "School name (required)")
	cmd.MarkFlagRequired("school")

	return cmd
}
