// Package export runs Lua export plugins against a widget model: it encodes
// the model as Lua literals, stages the plugin, runs the interpreter and
// merges what the plugin produced into one result string.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/widgetexport/internal/luatext"
	"github.com/ayusman/widgetexport/internal/plugin"
	"github.com/ayusman/widgetexport/internal/sandbox"
	"github.com/ayusman/widgetexport/internal/store"
	"github.com/ayusman/widgetexport/internal/widget"
)

// Recorder persists one history entry per export run.
type Recorder interface {
	RecordRun(run *store.Run) error
}

// Config holds configuration options for the bridge.
type Config struct {
	// Candidates lists interpreter locations in lookup order. Empty means
	// sandbox.DefaultCandidates next to the running binary.
	Candidates   []string
	StagingDir   string
	FallbackDirs []string
	// Timeout bounds each interpreter run; zero disables it.
	Timeout  time.Duration
	Recorder Recorder
	Logger   *slog.Logger
}

// Bridge executes export plugins. It keeps no per-call state, so one Bridge
// may serve any number of concurrent calls.
type Bridge struct {
	config Config
	stager *sandbox.Stager
	exec   *plugin.Executor
	logger *slog.Logger
}

// Outcome is the result of an asynchronous Execute.
type Outcome struct {
	Output string
	Err    error
}

// New creates a Bridge with the given configuration.
func New(config Config) *Bridge {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(config.Candidates) == 0 {
		config.Candidates = sandbox.DefaultCandidates(sandbox.ExecutableDir())
	}

	return &Bridge{
		config: config,
		stager: &sandbox.Stager{
			Dir:          config.StagingDir,
			FallbackDirs: config.FallbackDirs,
			Logger:       logger,
		},
		exec:   plugin.NewExecutor(config.Timeout),
		logger: logger,
	}
}

// Candidates returns the interpreter locations this bridge tries.
func (b *Bridge) Candidates() []string {
	return b.config.Candidates
}

// Execute runs the plugin at pluginPath with the given widget records and
// options and returns the export text. Malformed records are replaced by
// defaults; environment and plugin failures are returned as errors.
func (b *Bridge) Execute(ctx context.Context, pluginPath string, widgets []json.RawMessage, options json.RawMessage) (string, error) {
	start := time.Now()
	out, err := b.execute(ctx, pluginPath, widgets, options)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Warn("plugin export failed",
			slog.String("plugin", pluginPath),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
	} else {
		b.logger.Info("plugin export finished",
			slog.String("plugin", pluginPath),
			slog.Duration("duration", elapsed),
			slog.Int("bytes", len(out)),
		)
	}
	b.record(pluginPath, out, err, elapsed)
	return out, err
}

// ExecuteAsync runs Execute on its own goroutine. The returned channel yields
// exactly one Outcome and is then closed.
func (b *Bridge) ExecuteAsync(ctx context.Context, pluginPath string, widgets []json.RawMessage, options json.RawMessage) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		out, err := b.Execute(ctx, pluginPath, widgets, options)
		ch <- Outcome{Output: out, Err: err}
	}()
	return ch
}

func (b *Bridge) execute(ctx context.Context, pluginPath string, widgets []json.RawMessage, options json.RawMessage) (string, error) {
	interpreter, err := sandbox.ResolveInterpreter(b.config.Candidates)
	if err != nil {
		return "", err
	}

	in := widget.Adapt(b.logger, widgets, options)

	st, err := b.stager.Stage(pluginPath, luatext.EncodeWidgets(in.Widgets), luatext.EncodeOptions(in.Options))
	if err != nil {
		return "", err
	}
	defer st.Remove()

	res, err := b.exec.Run(ctx, interpreter, st.Driver)
	st.RemoveInputs()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(st.Output)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrOutputRead, st.Output, err)
	}
	st.RemoveOutput()

	return Reconcile(res.Stdout, string(data)), nil
}

func (b *Bridge) record(pluginPath, out string, err error, elapsed time.Duration) {
	if b.config.Recorder == nil {
		return
	}

	run := &store.Run{
		ID:          uuid.NewString(),
		PluginPath:  pluginPath,
		Status:      store.RunSucceeded,
		OutputBytes: len(out),
		Duration:    elapsed,
	}
	if err != nil {
		run.Status = store.RunFailed
		run.Error = err.Error()
	}
	if rerr := b.config.Recorder.RecordRun(run); rerr != nil {
		b.logger.Warn("failed to record export run", slog.String("error", rerr.Error()))
	}
}
