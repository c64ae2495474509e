// Package plugin runs the Lua interpreter against a staged driver script and
// captures what it produced.
package plugin

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrLaunch is returned when the interpreter process cannot be started.
	ErrLaunch = errors.New("failed to start lua interpreter")

	// ErrExecution is returned when the interpreter exits with a failure status.
	ErrExecution = errors.New("lua plugin execution failed")
)

// Result is the captured outcome of one interpreter run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExecError reports a run that exited unsuccessfully. Both streams are kept
// verbatim so the caller can diagnose the script error.
type ExecError struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString(ErrExecution.Error())
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	b.WriteString(":\n")
	if e.Stderr != "" {
		fmt.Fprintf(&b, "stderr:\n%s\n", e.Stderr)
	}
	if e.Stdout != "" {
		fmt.Fprintf(&b, "stdout:\n%s\n", e.Stdout)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrExecution) match.
func (e *ExecError) Is(target error) bool {
	return target == ErrExecution
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
