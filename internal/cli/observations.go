package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/wire"
)

// ObservationsCmd returns the observations command
func ObservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observations",
		Short: "Inspect submitted observations",
	}

	cmd.AddCommand(observationsListCmd())
	cmd.AddCommand(observationsExportCmd())

	return cmd
}

func observationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List submitted observations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summaries, err := wire.DirectoryService().ListObservations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list observations: %w", err)
			}

			if len(summaries) == 0 {
				fmt.Println("No observations submitted yet.")
				fmt.Println()
				fmt.Println("Record your first visit:")
				fmt.Println("  fieldbook observe")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tPM\tSCHOOL\tDATE\tTYPE")
			fmt.Fprintln(w, "---------\t--\t------\t----\t----")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					s.Timestamp,
					s.PMName,
					s.SchoolName,
					s.VisitDate,
					s.VisitType,
				)
			}
			w.Flush()
			return nil
		},
	}
}

func observationsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export submitted observations as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summaries, err := wire.DirectoryService().ListObservations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list observations: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		},
	}
}
