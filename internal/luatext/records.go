package luatext

import "github.com/ayusman/widgetexport/internal/widget"

// WidgetTable lowers w to a Table with the field names plugins read.
func WidgetTable(w widget.Widget) Table {
	return Table{
		{"id", w.ID},
		{"type", w.Type},
		{"x", w.X},
		{"y", w.Y},
		{"w", w.W},
		{"h", w.H},
		{"text", w.Text},
		{"name", w.Name},
		{"image", w.Image},
		{"parentId", w.ParentID},
		{"checked", w.Checked},
		{"selectedIndex", w.SelectedIndex},
	}
}

// OptionsTable lowers o to a Table. Animations is encoded generically.
func OptionsTable(o widget.ExportOptions) Table {
	return Table{
		{"resourcePath", o.ResourcePath},
		{"luaPath", o.LuaPath},
		{"mode", o.Mode},
		{"fileName", o.FileName},
		{"animations", o.Animations},
	}
}

// EncodeWidgets returns the Lua list literal for ws. An empty slice yields {}.
func EncodeWidgets(ws []widget.Widget) string {
	items := make([]any, len(ws))
	for i, w := range ws {
		items[i] = WidgetTable(w)
	}
	return Encode(items)
}

// EncodeOptions returns the Lua table literal for o.
func EncodeOptions(o widget.ExportOptions) string {
	return Encode(OptionsTable(o))
}
