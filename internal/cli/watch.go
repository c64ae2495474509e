package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/widgetexport/internal/app"
)

func newWatchCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run export plugins whenever their inputs change",
		Long: `Run the plugins once, then again each time a plugin, the widgets file or
the options file is written. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := GetLogger(cmd.Context())
			a, err := app.New(GetConfig(cmd.Context()), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := append([]string{opts.widgets, opts.options}, opts.plugins...)
			w, err := app.NewWatcher(paths, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			rerun := func(ctx context.Context) {
				if err := runOnce(ctx, a, opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
					logger.Warn("export run failed", slog.String("error", err.Error()))
				}
			}

			rerun(ctx)
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes, press Ctrl+C to stop")
			return w.Run(ctx, app.DefaultDebounce, rerun)
		},
	}
	opts.bind(cmd)
	return cmd
}
