package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor runs the interpreter as a synchronous subprocess.
type Executor struct {
	// Timeout bounds one run. Zero means no limit: a hung plugin blocks until
	// the context is cancelled.
	Timeout time.Duration
}

// NewExecutor creates a new Executor with the given timeout (zero for none).
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{Timeout: timeout}
}

// Run executes interpreter with script as its only argument. Stdin is not
// connected; stdout and stderr are captured in full. A nonzero exit yields an
// *ExecError carrying both streams.
func (e *Executor) Run(ctx context.Context, interpreter, script string) (*Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, interpreter, script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLaunch, interpreter, err)
	}
	err := cmd.Wait()

	res := &Result{
		Stdout:   decode(stdout.Bytes()),
		Stderr:   decode(stderr.Bytes()),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	execErr := &ExecError{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		execErr.Err = err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		execErr.Err = ctxErr
	}
	return res, execErr
}

// decode turns captured output into a string, replacing invalid UTF-8.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
