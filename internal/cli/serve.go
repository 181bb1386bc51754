package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

func newServeCommand(app *App, overrides *config.Overrides) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forms and collect entries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := app.cfg.Server
			srv, err := server.New(app.orch,
				server.WithLogger(app.logger.With("component", "http")),
				server.WithMetrics(app.metrics),
				server.WithAssets(vanilla.AssetsFS()),
				server.WithMaxUploadBytes(cfg.MaxUploadMB<<20),
			)
			if err != nil {
				return err
			}
			return server.ListenAndServe(ctx, cfg.Addr, srv.Handler(), server.Timeouts{
				Read:     cfg.ReadTimeout,
				Write:    cfg.WriteTimeout,
				Shutdown: cfg.ShutdownTimeout,
			}, app.logger)
		},
	}
	cmd.Flags().StringVar(&overrides.Addr, "addr", "", "listen address, for example 127.0.0.1:8080")
	return cmd
}
