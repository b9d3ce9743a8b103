package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/wire"
)

// PMCmd returns the pm command
func PMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pm",
		Short: "List program managers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the known program managers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			names, err := wire.DirectoryService().ListProgramManagers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list program managers: %w", err)
			}

			if len(names) == 0 {
				fmt.Println("No program managers found.")
				fmt.Println()
				fmt.Println("Program managers appear once their first school is registered:")
				fmt.Println("  fieldbook school add \"My School\" --pm \"PM Name\"")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	})

	return cmd
}
