package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ayusman/widgetexport/internal/app"
	"github.com/ayusman/widgetexport/internal/store"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent export runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(GetConfig(cmd.Context()), GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.History(limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), runs, a.Store().Path(), time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func renderHistory(w io.Writer, runs []*store.Run, source string, now time.Time) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintf(w, "(no runs in %s)\n", source)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Plugin", "Status", "Output", "Duration", "When", "Error"})

	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		t.AppendRow(table.Row{
			id,
			r.PluginPath,
			string(r.Status),
			humanize.Bytes(uint64(r.OutputBytes)),
			r.Duration.String(),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			truncate(r.Error, 60),
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs in %s)\n", len(runs), source)
}

func truncate(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' {
			r = r[:i]
			break
		}
	}
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
