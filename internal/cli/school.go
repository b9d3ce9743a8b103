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

// SchoolCmd returns the school command
func SchoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "school",
		Short: "Manage schools",
		Long:  `Register and list the schools assigned to program managers.`,
	}

	cmd.AddCommand(schoolAddCmd())
	cmd.AddCommand(schoolListCmd())

	return cmd
}

func schoolAddCmd() *cobra.Command {
	var pmName string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a new school",
		Long: `Register a new school under a program manager.

Examples:
  fieldbook school add "GPS Rampur" --pm "Anita Sharma"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name := args[0]

			err := wire.DirectoryService().AddSchool(ctx, primary.AddSchoolRequest{
				SchoolName:     name,
				ProgramManager: pmName,
			})
			if err != nil {
				return fmt.Errorf("failed to add school: %w", err)
			}

			fmt.Printf("✓ Added school %s (PM: %s)\n", name, pmName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pmName, "pm", "p", "", "Program manager name (required)")
	cmd.MarkFlagRequired("pm")

	return cmd
}

func schoolListCmd() *cobra.Command {
	var pmName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schools for a program manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			schools, err := wire.DirectoryService().ListSchools(ctx, pmName)
			if err != nil {
				return fmt.Errorf("failed to list schools: %w", err)
			}

			if len(schools) == 0 {
				fmt.Printf("No schools found for %s.\n", pmName)
				fmt.Println()
				fmt.Println("Register one:")
				fmt.Printf("  fieldbook school add \"My School\" --pm %q\n", pmName)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "SCHOOL")
			fmt.Fprintln(w, "------")
			for _, s := range schools {
				fmt.Fprintf(w, "%s\n", s)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&pmName, "pm", "p", "", "Program manager name (required)")
	cmd.MarkFlagRequired("pm")

	return cmd
}
