package catalog

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// safeLibs are the only standard libraries opened in a catalog VM.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// unsafeBaseFuncs load code from disk or strings and are removed from the
// base library.
var unsafeBaseFuncs = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// newSandboxedVM creates a Lua state without os, io, package or debug, so a
// catalog stays declarative.
func newSandboxedVM() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range safeLibs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua library %s: %w", lib.name, err)
		}
	}

	for _, name := range unsafeBaseFuncs {
		L.SetGlobal(name, lua.LNil)
	}

	return L, nil
}
