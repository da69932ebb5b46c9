package infer

import (
	_ "embed"
	"strings"
)

//go:embed stdlib/lua.txt
var luaStdlibData string

var luaStdlib = map[string]bool{}

func init() {
	for _, line := range strings.Split(luaStdlibData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		luaStdlib[line] = true
		// string.format -> format
		if _, name, ok := strings.Cut(line, "."); ok {
			luaStdlib[name] = true
		}
	}
}

// IsStdlib reports whether name belongs to the Lua standard library.
func IsStdlib(name string) bool {
	return luaStdlib[name]
}
