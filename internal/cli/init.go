package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/config"
	"github.com/example/fieldbook/internal/ports/secondary"
	"github.com/example/fieldbook/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize fieldbook storage",
		Long:  `Write a default config to ~/.fieldbook/config.json and create the record tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.HomeDir()
			if err != nil {
				return err
			}

			configPath := filepath.Join(dir, "config.json")
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := config.Save(config.Default()); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", configPath)
			} else {
				fmt.Printf("Config already exists at %s\n", configPath)
			}

			// Creating the tables up front makes the first listing calls
			// work against an empty store.
			ctx := context.Background()
			store := wire.RecordStore()
			for _, table := range []secondary.Table{
				secondary.SchoolsTable,
				secondary.TeachersTable,
				secondary.ObservationsTable,
			} {
				if err := store.GetOrCreateTable(ctx, table); err != nil {
					return fmt.Errorf("failed to create table %s: %w", table.Name, err)
				}
			}
			fmt.Println("✓ Record tables ready")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  fieldbook school add \"My School\" --pm \"PM Name\"")
			fmt.Println("  fieldbook observe")

			return nil
		},
	}
}
