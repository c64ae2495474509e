package export

import "strings"

// StdoutCommentPrefix starts each captured stdout line in a reconciled result.
const StdoutCommentPrefix = "-- Lua output: "

// Reconcile merges captured stdout with the plugin's output. When stdout has
// any non-whitespace content, every stdout line becomes a Lua comment and the
// comments come first, followed by a blank line and the artifact.
func Reconcile(stdout, artifact string) string {
	if strings.TrimSpace(stdout) == "" {
		return artifact
	}

	lines := splitLines(stdout)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(StdoutCommentPrefix)
		b.WriteString(line)
	}
	b.WriteString("\n\n")
	b.WriteString(artifact)
	return b.String()
}

// splitLines splits on \n, drops one trailing newline and strips a \r before
// each line break.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
