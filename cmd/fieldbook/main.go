package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/cli"
	"github.com/example/fieldbook/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fieldbook",
		Short:   "fieldbook - school visit observation records",
		Version: version.String(),
		Long: `fieldbook records structured school visit observations: classroom
observations per teacher, plus infrastructure and community sections on
monthly visits. It keeps the school and teacher directory that the
observation form draws from.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ObserveCmd())
	rootCmd.AddCommand(cli.SchoolCmd())
	rootCmd.AddCommand(cli.TeacherCmd())
	rootCmd.AddCommand(cli.PMCmd())
	rootCmd.AddCommand(cli.ObservationsCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
