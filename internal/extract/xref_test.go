package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

func TestDefinedNames(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`
local utf8 = require("utf8")
local function helper() end
function Global(a) end
`)

	locals, globals := DefinedNames(src.Clean)
	assert.Equal(t, []string{"helper"}, locals)
	assert.Equal(t, []string{"helper", "Global"}, globals)
}

func TestPrefixedCalls(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`
C.GetPlayerID()
local x = Helper.round(3) + menu.value
print("C.Hidden()")
`)

	got := slices.Collect(PrefixedCalls(src.Clean))
	assert.Equal(t, []Prefixed{
		{Prefix: "C", Name: "GetPlayerID"},
		{Prefix: "Helper", Name: "round"},
	}, got)
}
