package testutil

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed testdata/plugins/*.lua
var pluginsFS embed.FS

// Plugin returns the source of the named fixture plugin, e.g. "hello.lua".
func Plugin(name string) ([]byte, error) {
	data, err := pluginsFS.ReadFile("testdata/plugins/" + name)
	if err != nil {
		return nil, fmt.Errorf("load plugin %s: %w", name, err)
	}
	return data, nil
}

// WritePlugin copies the named fixture into dir under the same file name and
// returns the written path.
func WritePlugin(dir, name string) (string, error) {
	return WritePluginAs(dir, name, name)
}

// WritePluginAs copies the named fixture into dir as target. Target may contain
// characters an interpreter cannot open directly, such as spaces or non-ASCII.
func WritePluginAs(dir, name, target string) (string, error) {
	data, err := Plugin(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create plugin dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write plugin %s: %w", path, err)
	}
	return path, nil
}
