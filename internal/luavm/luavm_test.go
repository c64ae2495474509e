package luavm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestMain_RunsScript(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	script := writeScript(t, `
print("hello", 1, arg[1])
local f = assert(io.open(`+"[["+out+"]]"+`, "w"))
f:write("done")
f:close()
`)

	var stdout, stderr bytes.Buffer
	code := Main([]string{"lua54", script, "x"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "hello\t1\tx\n", stdout.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "done", string(data))
}

func TestMain_RunsLua51(t *testing.T) {
	script := writeScript(t, `print(_VERSION, type(math.type), type(utf8))`)

	var stdout, stderr bytes.Buffer
	code := Main([]string{"lua54", script}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Lua 5.1\tnil\tnil\n", stdout.String())

	// floor division is 5.3+ syntax
	script = writeScript(t, `print(7 // 2)`)
	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, Main([]string{"lua54", script}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestMain_ScriptError(t *testing.T) {
	script := writeScript(t, `error("boom")`)

	var stdout, stderr bytes.Buffer
	code := Main([]string{"lua54", script}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "boom")
}

func TestMain_SyntaxError(t *testing.T) {
	script := writeScript(t, `local = 1`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, Main([]string{"lua54", script}, &stdout, &stderr))
	assert.NotEmpty(t, stderr.String())
}

func TestMain_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, Main([]string{"lua54"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage")
}
