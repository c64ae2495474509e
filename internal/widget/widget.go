// Package widget holds the strict export model handed to Lua plugins and the
// adapter that builds it from loosely-typed editor records.
package widget

// DefaultType is the widget type substituted for records that fail to decode.
const DefaultType = "Panel"

// Widget is one UI element on the design canvas.
type Widget struct {
	ID            *uint32
	Type          string
	X             float64
	Y             float64
	W             float64
	H             float64
	Text          string
	Name          *string
	Image         *string
	ParentID      *uint32
	Checked       *bool
	SelectedIndex *uint32
}

// ExportOptions is the options bag passed to a plugin alongside the widgets.
// Animations has no fixed shape and is carried as a generic decoded value.
type ExportOptions struct {
	ResourcePath *string
	LuaPath      *string
	Mode         *string
	FileName     *string
	Animations   any
}

// PluginInput is the unit submitted to one plugin invocation.
type PluginInput struct {
	Widgets []Widget
	Options ExportOptions
}

// DefaultWidget returns the widget substituted for a malformed record.
func DefaultWidget() Widget {
	return Widget{Type: DefaultType}
}
