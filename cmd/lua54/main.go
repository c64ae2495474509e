// Command lua54 is a standalone Lua runner built on the embedded VM. Placing
// it next to widgetexport satisfies the first interpreter candidate.
//
// The name matches the interpreter the bridge looks for first; the language
// it runs is Lua 5.1 (see package luavm).
package main

import (
	"os"

	"github.com/ayusman/widgetexport/internal/luavm"
)

func main() {
	os.Exit(luavm.Main(os.Args, os.Stdout, os.Stderr))
}
