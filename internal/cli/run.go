package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ayusman/widgetexport/internal/app"
)

// runOptions are shared by run and watch.
type runOptions struct {
	plugins []string
	widgets string
	options string
	outDir  string
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.plugins, "plugin", "p", nil, "Lua export plugin (repeatable)")
	cmd.Flags().StringVarP(&o.widgets, "widgets", "w", "", "Widgets file (JSON array or YAML list)")
	cmd.Flags().StringVar(&o.options, "options", "", "Export options file (JSON or YAML)")
	cmd.Flags().StringVarP(&o.outDir, "out-dir", "o", "", "Write each export to <dir>/<plugin>.out instead of stdout")
	_ = cmd.MarkFlagRequired("plugin")
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run export plugins once",
		Long: `Run one or more Lua export plugins against a widget model. Plugins run
concurrently and independently; the command fails if any of them fails.`,
		Example: `  widgetexport run -p plugins/lua-ui/export.lua -w widgets.json
  widgetexport run -p a.lua -p b.lua -w widgets.yaml --options options.yaml -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(GetConfig(cmd.Context()), GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer a.Close()

			return runOnce(cmd.Context(), a, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	opts.bind(cmd)
	return cmd
}

// runOnce loads the input files and runs every plugin, printing outputs in
// plugin order.
func runOnce(ctx context.Context, a *app.App, opts *runOptions, stdout, stderr io.Writer) error {
	in, err := app.LoadInput(opts.widgets, opts.options)
	if err != nil {
		return err
	}

	results := a.RunPlugins(ctx, opts.plugins, in, opts.outDir)
	for _, r := range results {
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", r.Plugin, r.Err)
		case r.OutPath != "":
			_, _ = fmt.Fprintf(stderr, "%s -> %s\n", r.Plugin, r.OutPath)
		case len(results) > 1:
			_, _ = fmt.Fprintf(stdout, "==> %s <==\n%s\n", r.Plugin, r.Output)
		default:
			_, _ = fmt.Fprintln(stdout, r.Output)
		}
	}
	return app.Failed(results)
}
