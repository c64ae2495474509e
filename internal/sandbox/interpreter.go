package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// InterpreterName is the executable name DefaultCandidates looks for.
const InterpreterName = "lua54"

// DefaultCandidates returns the interpreter locations tried in order: next to
// the host executable, on PATH, then the development layout under tools/.
func DefaultCandidates(exeDir string) []string {
	var candidates []string
	if exeDir != "" {
		candidates = append(candidates,
			filepath.Join(exeDir, InterpreterName+".exe"),
			filepath.Join(exeDir, InterpreterName),
		)
	}
	return append(candidates,
		InterpreterName+".exe",
		InterpreterName,
		filepath.Join("tools", InterpreterName+".exe"),
		filepath.Join("tools", InterpreterName),
	)
}

// ExecutableDir returns the directory of the running binary, or "" if it
// cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// ResolveInterpreter returns the first candidate that exists. Bare names are
// looked up on PATH; anything with a separator is checked on disk as given.
func ResolveInterpreter(candidates []string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if !strings.ContainsAny(c, `/\`) {
			if p, err := exec.LookPath(c); err == nil {
				return p, nil
			}
			continue
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w; place %s at one of: %s",
		ErrInterpreterNotFound, InterpreterName, strings.Join(candidates, ", "))
}
