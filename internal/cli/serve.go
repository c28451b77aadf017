package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hv-analyzer/internal/bootstrap"
)

func newServeCommand(opts *options) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				opts.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap.Build(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return bootstrap.Serve(ctx, a)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}
