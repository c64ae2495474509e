package testutil

import (
	"os"

	"github.com/ayusman/widgetexport/internal/luavm"
)

const interpreterEnv = "WIDGETEXPORT_TEST_LUA_INTERPRETER"

// ServeLuaInterpreter lets a test binary double as the Lua interpreter. Call
// it at the top of TestMain. When the binary was started as an interpreter it
// runs the script named on the command line and exits; otherwise it returns
// the binary's own path for use as the interpreter candidate.
func ServeLuaInterpreter() string {
	if os.Getenv(interpreterEnv) == "1" {
		os.Exit(luavm.Main(os.Args, os.Stdout, os.Stderr))
	}
	os.Setenv(interpreterEnv, "1")

	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	return exe
}
