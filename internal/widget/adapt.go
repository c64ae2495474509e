package widget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// rawWidget mirrors the editor's record. Pointer fields distinguish a missing
// key from a zero value.
type rawWidget struct {
	ID                 *uint32  `json:"id"`
	Type               *string  `json:"type"`
	X                  *float64 `json:"x"`
	Y                  *float64 `json:"y"`
	W                  *float64 `json:"w"`
	H                  *float64 `json:"h"`
	Text               *string  `json:"text"`
	Name               *string  `json:"name"`
	Image              *string  `json:"image"`
	ParentID           *uint32  `json:"parentId"`
	ParentIDSnake      *uint32  `json:"parent_id"`
	Checked            *bool    `json:"checked"`
	SelectedIndex      *uint32  `json:"selectedIndex"`
	SelectedIndexSnake *uint32  `json:"selected_index"`
}

type rawOptions struct {
	ResourcePath *string `json:"resourcePath"`
	LuaPath      *string `json:"luaPath"`
	Mode         *string `json:"mode"`
	FileName     *string `json:"fileName"`
	Animations   any     `json:"animations"`
}

// DecodeWidget decodes one widget record. It fails when the record is not an
// object, when a required field (type, x, y, w, h, text) is missing, or when a
// field has the wrong type.
func DecodeWidget(raw json.RawMessage) (Widget, error) {
	var rw rawWidget
	if err := decodeStrict(raw, &rw); err != nil {
		return Widget{}, err
	}

	var missing []string
	if rw.Type == nil {
		missing = append(missing, "type")
	}
	if rw.X == nil {
		missing = append(missing, "x")
	}
	if rw.Y == nil {
		missing = append(missing, "y")
	}
	if rw.W == nil {
		missing = append(missing, "w")
	}
	if rw.H == nil {
		missing = append(missing, "h")
	}
	if rw.Text == nil {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return Widget{}, fmt.Errorf("missing field(s): %s", strings.Join(missing, ", "))
	}

	w := Widget{
		ID:            rw.ID,
		Type:          *rw.Type,
		X:             *rw.X,
		Y:             *rw.Y,
		W:             *rw.W,
		H:             *rw.H,
		Text:          *rw.Text,
		Name:          rw.Name,
		Image:         rw.Image,
		ParentID:      rw.ParentID,
		Checked:       rw.Checked,
		SelectedIndex: rw.SelectedIndex,
	}
	if w.ParentID == nil {
		w.ParentID = rw.ParentIDSnake
	}
	if w.SelectedIndex == nil {
		w.SelectedIndex = rw.SelectedIndexSnake
	}
	return w, nil
}

// DecodeOptions decodes the options record. Numbers inside animations are kept
// as json.Number so integers survive unchanged.
func DecodeOptions(raw json.RawMessage) (ExportOptions, error) {
	var ro rawOptions
	if err := decodeStrict(raw, &ro); err != nil {
		return ExportOptions{}, err
	}
	return ExportOptions{
		ResourcePath: ro.ResourcePath,
		LuaPath:      ro.LuaPath,
		Mode:         ro.Mode,
		FileName:     ro.FileName,
		Animations:   ro.Animations,
	}, nil
}

// Adapt builds a PluginInput. It never fails: a record that does not decode is
// replaced by DefaultWidget and undecodable options by an empty ExportOptions.
func Adapt(logger *slog.Logger, widgets []json.RawMessage, options json.RawMessage) PluginInput {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	in := PluginInput{Widgets: make([]Widget, 0, len(widgets))}
	for i, raw := range widgets {
		w, err := DecodeWidget(raw)
		if err != nil {
			logger.Debug("substituting default widget", slog.Int("index", i), slog.String("error", err.Error()))
			w = DefaultWidget()
		}
		in.Widgets = append(in.Widgets, w)
	}

	opts, err := DecodeOptions(options)
	if err != nil {
		logger.Debug("substituting empty export options", slog.String("error", err.Error()))
		opts = ExportOptions{}
	}
	in.Options = opts
	return in
}

// FromAny converts an already-decoded transport value into a raw record.
// Mappings with non-string keys, as YAML decoders produce for `1: ...`, have
// their keys rendered with fmt.Sprint.
func FromAny(v any) (json.RawMessage, error) {
	b, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("convert %T to JSON: %w", v, err)
	}
	return b, nil
}

// FromAnySlice converts each element with FromAny.
func FromAnySlice(vs []any) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(vs))
	for i, v := range vs {
		raw, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = raw
	}
	return out, nil
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = stringKeys(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}

var errNotObject = errors.New("record is not an object")

func decodeStrict(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
