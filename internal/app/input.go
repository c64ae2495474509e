package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/widgetexport/internal/widget"
)

// Input is the widget model handed to every plugin of one run.
type Input struct {
	Widgets []json.RawMessage
	Options json.RawMessage
}

// LoadInput reads a widgets file and an optional options file. Both may be
// JSON or YAML. The widgets file must hold a list; its elements are passed
// on untouched so malformed records still reach the adapter's defaults.
func LoadInput(widgetsPath, optionsPath string) (Input, error) {
	var in Input

	if widgetsPath != "" {
		data, err := os.ReadFile(widgetsPath)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInput, err)
		}
		in.Widgets, err = ParseWidgets(data)
		if err != nil {
			return in, fmt.Errorf("%w %s: %w", ErrInput, widgetsPath, err)
		}
	}

	if optionsPath != "" {
		data, err := os.ReadFile(optionsPath)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInput, err)
		}
		in.Options, err = ParseOptions(data)
		if err != nil {
			return in, fmt.Errorf("%w %s: %w", ErrInput, optionsPath, err)
		}
	}

	return in, nil
}

// ParseWidgets decodes a JSON array or a YAML sequence of widget records.
func ParseWidgets(data []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	var list []any
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("widgets must be a JSON array or YAML list: %w", err)
	}
	return widget.FromAnySlice(list)
}

// ParseOptions returns the options document as JSON. YAML input is
// converted; anything that is not a mapping is still returned so the
// adapter can fall back to empty options.
func ParseOptions(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}

	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("options must be JSON or YAML: %w", err)
	}
	return widget.FromAny(doc)
}
