package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/widgetexport/internal/config"
	"github.com/ayusman/widgetexport/internal/store"
	"github.com/ayusman/widgetexport/internal/testutil"
)

var interpreter string

func TestMain(m *testing.M) {
	interpreter = testutil.ServeLuaInterpreter()
	os.Exit(m.Run())
}

// execute runs the root command with the test interpreter and an isolated
// history database.
func execute(t *testing.T, historyDB string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	base := []string{
		"--interpreter", interpreter,
		"--staging-dir", t.TempDir(),
		"--history-db", historyDB,
	}
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writePlugin(t *testing.T, dir, name string) string {
	t.Helper()
	path, err := testutil.WritePlugin(dir, name)
	require.NoError(t, err)
	return path
}

func TestRun_SinglePluginToStdout(t *testing.T) {
	dir := t.TempDir()
	widgets := filepath.Join(dir, "widgets.json")
	require.NoError(t, os.WriteFile(widgets, []byte(`[{"type":"button","x":0,"y":0,"w":1,"h":1,"text":"ok"}]`), 0o644))
	options := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(options, []byte("mode: string\n"), 0o644))

	stdout, _, err := execute(t, filepath.Join(dir, "h.db"),
		"run", "-p", writePlugin(t, dir, "summary.lua"), "-w", widgets, "--options", options)

	require.NoError(t, err)
	assert.Equal(t, "count=1\n1:button:ok:nil\nmode=string\n", stdout)
}

func TestRun_SeveralPluginsToOutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	_, stderr, err := execute(t, filepath.Join(dir, "h.db"),
		"run", "-p", writePlugin(t, dir, "hello.lua"), "-p", writePlugin(t, dir, "nil_result.lua"), "-o", outDir)

	require.NoError(t, err)
	assert.Contains(t, stderr, "hello.out")
	data, err := os.ReadFile(filepath.Join(outDir, "hello.out"))
	require.NoError(t, err)
	assert.Equal(t, "-- Lua output: hello\n\nWORLD", string(data))
	data, err = os.ReadFile(filepath.Join(outDir, "nil_result.out"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRun_FailureIsReported(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, err := execute(t, filepath.Join(dir, "h.db"),
		"run", "-p", writePlugin(t, dir, "hello.lua"), "-p", writePlugin(t, dir, "runtime_error.lua"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime_error.lua")
	assert.Contains(t, stderr, "exporter exploded")
	assert.Contains(t, stdout, "==> ")
	assert.Contains(t, stdout, "WORLD")
}

func TestRun_RequiresPlugin(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "h.db"), "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin")
}

func TestHistory_ListsRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "h.db")

	_, _, err := execute(t, db, "run", "-p", writePlugin(t, dir, "hello.lua"))
	require.NoError(t, err)
	_, _, err = execute(t, db, "run", "-p", writePlugin(t, dir, "returns_table.lua"))
	require.Error(t, err)

	stdout, _, err := execute(t, db, "history", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hello.lua")
	assert.Contains(t, stdout, "succeeded")
	assert.Contains(t, stdout, "failed")
	assert.Contains(t, stdout, "(2 runs in "+db+")")
}

func TestHistory_Disabled(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "h.db"), "history", "--history=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestInterpreter(t *testing.T) {
	stdout, _, err := execute(t, filepath.Join(t.TempDir(), "h.db"), "interpreter")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Using: "+interpreter)

	missing := filepath.Join(t.TempDir(), "nope")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"interpreter", "--interpreter", missing, "--history=false"})
	err = cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.Contains(t, out.String(), "Candidates:")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, filepath.Join(t.TempDir(), "h.db"), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "widgetexport v"+Version))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])

	_, err = NewLogger(config.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = NewLogger(config.LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []*store.Run{{
		ID:          "0123456789abcdef",
		PluginPath:  "/p/export.lua",
		Status:      store.RunFailed,
		Error:       "lua plugin execution failed:\nstderr:\nboom",
		OutputBytes: 2048,
		Duration:    1500 * time.Millisecond,
		CreatedAt:   now.Add(-3 * time.Minute),
	}}

	var buf bytes.Buffer
	renderHistory(&buf, runs, "/var/h.db", now)
	out := buf.String()

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "3 minutes ago")
	assert.Contains(t, out, "lua plugin execution failed:")
	assert.NotContains(t, out, "boom")
	assert.Contains(t, out, "(1 runs in /var/h.db)")

	buf.Reset()
	renderHistory(&buf, nil, "/var/h.db", now)
	assert.Equal(t, "(no runs in /var/h.db)\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "first", truncate("first\nsecond", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
