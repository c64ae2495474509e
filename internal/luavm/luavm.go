// Package luavm runs Lua script files on an embedded gopher-lua VM. It backs
// the bundled lua54 command, which can be shipped next to the host binary when
// no system interpreter is installed.
//
// Despite the command name the VM implements Lua 5.1: floor division (//),
// bitwise operators, the integer subtype (math.type) and the utf8 library are
// missing. Plugins that need them should list a real Lua 5.4 binary under
// interpreter.candidates ahead of the bundled runner.
package luavm

import (
	"fmt"
	"io"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
)

// RunFile executes the script at path. print output goes to stdout; the
// script's own io library still writes to the process streams.
func RunFile(path string, args []string, stdout io.Writer) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				io.WriteString(stdout, "\t")
			}
			io.WriteString(stdout, L.ToStringMeta(L.Get(i)).String())
		}
		io.WriteString(stdout, "\n")
		return 0
	}))

	argt := L.NewTable()
	argt.RawSetInt(0, lua.LString(path))
	for i, a := range args {
		argt.RawSetInt(i+1, lua.LString(a))
	}
	L.SetGlobal("arg", argt)

	return L.DoFile(path)
}

// Main is the entry point of the lua54 command. It returns the process exit
// code: 0 on success, 1 when the script fails, 2 on a usage error.
func Main(args []string, stdout, stderr io.Writer) int {
	prog := "lua54"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	if len(args) < 2 {
		fmt.Fprintf(stderr, "usage: %s script.lua [args...]\n", prog)
		return 2
	}
	if err := RunFile(args[1], args[2:], stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return 1
	}
	return 0
}
