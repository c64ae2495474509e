package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one plugin in a batch.
type Result struct {
	Plugin   string
	Output   string
	OutPath  string
	Duration time.Duration
	Err      error
}

// OutputName is the file name a plugin's export is written to inside an
// output directory: the plugin's base name with its extension replaced.
func OutputName(pluginPath string) string {
	base := filepath.Base(pluginPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".out"
}

// OutputNames assigns each plugin a distinct output file name. The first
// plugin with a given base name gets OutputName; later ones get a numeric
// suffix (export.2.out, export.3.out, ...).
func OutputNames(plugins []string) []string {
	names := make([]string, len(plugins))
	taken := make(map[string]bool, len(plugins))
	for i, p := range plugins {
		name := OutputName(p)
		stem := strings.TrimSuffix(name, ".out")
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s.%d.out", stem, n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// RunPlugins executes every plugin against the same input concurrently.
// A failing plugin does not stop the others; each Result carries its own
// error. When outDir is set each successful output is written there.
func (a *App) RunPlugins(ctx context.Context, plugins []string, in Input, outDir string) []Result {
	results := make([]Result, len(plugins))
	names := OutputNames(plugins)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range plugins {
		g.Go(func() error {
			start := time.Now()
			out, err := a.bridge.Execute(ctx, p, in.Widgets, in.Options)
			res := Result{Plugin: p, Output: out, Err: err}
			if err == nil && outDir != "" {
				res.OutPath = filepath.Join(outDir, names[i])
				if werr := os.WriteFile(res.OutPath, []byte(out), 0o644); werr != nil {
					res.Err = fmt.Errorf("failed to write %s: %w", res.OutPath, werr)
				}
			}
			res.Duration = time.Since(start)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed joins the errors of every failed result, or returns nil.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Plugin, r.Err))
		}
	}
	return errors.Join(errs...)
}
