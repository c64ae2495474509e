package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/widgetexport/internal/app"
	"github.com/ayusman/widgetexport/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export HTTP API",
		Long: `Start the HTTP API:

  GET  /api/health
  POST /api/export   {"pluginPath": "...", "widgets": [...], "options": {...}}
  GET  /api/history?limit=N`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Exporter:    a.Bridge(),
				PluginRoots: cfg.Server.PluginRoots,
				History:     a,
				Logger:      logger,
			})
			return srv.Serve(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8080)")
	cmd.Flags().StringSlice("plugin-root", nil, "Only serve exports for plugins under this directory (repeatable)")
	return cmd
}
