// Package sandbox stages a plugin and its generated driver script in a
// temporary directory the interpreter can open reliably, and removes them
// again afterwards.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Stager places per-invocation files in a staging directory.
type Stager struct {
	// Dir overrides the staging directory. Empty means os.TempDir().
	Dir string
	// FallbackDirs are tried in order when Dir is not a safe path.
	FallbackDirs []string
	Logger       *slog.Logger
}

// Staged is the set of files owned by one invocation.
type Staged struct {
	Driver string
	Plugin string
	Output string

	logger *slog.Logger
}

// NewStager creates a Stager using dir, or the platform temp dir when empty.
func NewStager(dir string, logger *slog.Logger) *Stager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stager{Dir: dir, Logger: logger}
}

// Stage copies the plugin at pluginPath into the staging directory and writes
// a driver script that feeds it the given widgets and options literals. Paths
// use fresh random identifiers, so concurrent calls never share a file.
func (s *Stager) Stage(pluginPath, widgetsLua, optionsLua string) (*Staged, error) {
	if _, err := os.Stat(pluginPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, pluginPath)
	}

	dir := s.stagingDir()
	st := &Staged{
		Driver: filepath.Join(dir, "lua_wrapper_"+uuid.NewString()+".lua"),
		Plugin: filepath.Join(dir, "lua_plugin_"+uuid.NewString()+".lua"),
		Output: filepath.Join(dir, "lua_plugin_output_"+uuid.NewString()+".txt"),
		logger: s.logger(),
	}

	if err := copyFile(pluginPath, st.Plugin); err != nil {
		st.remove(st.Plugin)
		return nil, fmt.Errorf("%w: copy plugin %s -> %s: %w", ErrStaging, pluginPath, st.Plugin, err)
	}

	script := DriverScript(st.Output, st.Plugin, widgetsLua, optionsLua)
	if err := writeNew(st.Driver, []byte(script)); err != nil {
		st.remove(st.Driver)
		st.remove(st.Plugin)
		return nil, fmt.Errorf("%w: write driver script %s: %w", ErrStaging, st.Driver, err)
	}

	st.logger.Debug("staged plugin",
		slog.String("plugin", pluginPath),
		slog.String("staged", st.Plugin),
		slog.String("driver", st.Driver),
	)
	return st, nil
}

func (s *Stager) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// stagingDir picks the first safe directory among Dir (or the temp dir) and
// the fallbacks. If none is safe the primary choice is used anyway.
func (s *Stager) stagingDir() string {
	primary := s.Dir
	if primary == "" {
		primary = os.TempDir()
	}
	if IsSafePath(primary) {
		return primary
	}
	for _, d := range s.FallbackDirs {
		if !IsSafePath(d) {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			return d
		}
	}
	s.logger().Warn("staging directory contains characters the interpreter may not open",
		slog.String("dir", primary))
	return primary
}

// IsSafePath reports whether p contains only ASCII letters, digits and the
// separators . _ - / \ :.
func IsSafePath(p string) bool {
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-', c == '/', c == '\\', c == ':':
		default:
			return false
		}
	}
	return p != ""
}

// RemoveInputs deletes the driver script and the staged plugin copy.
func (st *Staged) RemoveInputs() {
	st.remove(st.Driver)
	st.remove(st.Plugin)
}

// RemoveOutput deletes the output artifact.
func (st *Staged) RemoveOutput() {
	st.remove(st.Output)
}

// Remove deletes every staged file.
func (st *Staged) Remove() {
	st.RemoveInputs()
	st.RemoveOutput()
}

// remove is best effort: failures are logged and never returned.
func (st *Staged) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		if st.logger != nil {
			st.logger.Debug("failed to remove staged file", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
