package sandbox

import (
	"fmt"

	"github.com/ayusman/widgetexport/internal/luatext"
)

// driverTemplate loads the staged plugin, checks that it evaluated to a
// function, calls it and writes the return value to the output file. Any
// error aborts the interpreter with a nonzero exit status.
const driverTemplate = `local output_file = %s
local plugin_file = %s

local widgets = %s
local options = %s

local plugin_func = dofile(plugin_file)
if type(plugin_func) ~= "function" then
    error("plugin must return a function, got: " .. type(plugin_func))
end

local result = plugin_func(widgets, options)

local output_handle, open_err = io.open(output_file, "w")
if not output_handle then
    error("cannot open output file: " .. output_file .. ": " .. tostring(open_err))
end
output_handle:write(result or "")
output_handle:close()
`

// DriverScript renders the driver for one invocation. Paths are embedded as
// quoted string literals.
func DriverScript(outputPath, pluginPath, widgetsLua, optionsLua string) string {
	return fmt.Sprintf(driverTemplate,
		luatext.Quote(outputPath),
		luatext.Quote(pluginPath),
		widgetsLua,
		optionsLua,
	)
}
