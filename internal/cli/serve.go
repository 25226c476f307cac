package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/metrics"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/server"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		port  int
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the abtest HTTP server.

The server provides:
  - JSON endpoints for the z-test, t-test, power analysis and bootstrap
  - Analysis of experiments in the sample store
  - HTML reports under /dashboard
  - Prometheus metrics at /metrics and a health check at /health

When a token is set, /api/v1 and /dashboard require it.

Example:
  abtest serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return o.withStore(func(s *store.SQLStore) error {
				srv := server.New(s, server.Options{
					Port:                port,
					Token:               token,
					Logger:              o.logger,
					Metrics:             metrics.New(),
					BootstrapIterations: o.cfg.Bootstrap.Iterations,
					BootstrapWorkers:    o.cfg.Bootstrap.Workers,
				})

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Server running at http://localhost:%d\n", port)
				fmt.Fprintln(out, dashboardURL(fmt.Sprintf("http://localhost:%d", port), token))
				fmt.Fprintln(out, "Press Ctrl+C to stop")

				return srv.Start(ctx)
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", o.cfg.Server.Port, "port to listen on (env AB_PORT)")
	cmd.Flags().StringVar(&token, "token", o.cfg.Server.Token, "access token for the API and dashboard (env AB_TOKEN)")

	return cmd
}
