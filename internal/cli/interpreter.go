package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/widgetexport/internal/sandbox"
)

func newInterpreterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interpreter",
		Short: "Show the Lua interpreter candidates and which one is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidates := GetConfig(cmd.Context()).Interpreter.Candidates
			if len(candidates) == 0 {
				candidates = sandbox.DefaultCandidates(sandbox.ExecutableDir())
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Candidates:")
			for _, c := range candidates {
				_, _ = fmt.Fprintf(out, "  %s\n", c)
			}

			resolved, err := sandbox.ResolveInterpreter(candidates)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Using: %s\n", resolved)
			return nil
		},
	}
}
