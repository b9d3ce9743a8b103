package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fieldbook/internal/server"
	"github.com/example/fieldbook/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP form server",
		Long:  `Serve the observation wizard and school directory API over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = wire.Cfg().HTTP.Addr
			}

			srv := server.New(wire.SessionService(), wire.DirectoryService(), wire.Logger())
			if err := srv.Run(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}
