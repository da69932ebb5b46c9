package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

func TestNamespacedDefinition(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`function Foo.Bar(x, y) return x end`)

	fns := slices.Collect(Namespaced("foo.lua", src))
	require.Len(t, fns, 1)
	fn := fns[0]
	assert.Equal(t, "Foo.Bar", fn.Key())
	assert.Equal(t, model.KindNamespaced, fn.Kind)
	assert.Equal(t, []string{"x", "y"}, fn.ParamNames())
	assert.Equal(t, model.Any, fn.ReturnType)
	assert.Equal(t, "foo.lua", fn.Source)

	assert.Empty(t, slices.Collect(Globals("foo.lua", src)))
}

func TestGlobalsAndLocals(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`
function Refresh(menu)
	return true
end

local function count(list)
	return 0
end
`)

	globals := slices.Collect(Globals("a.lua", src))
	require.Len(t, globals, 2)
	assert.Equal(t, "global.Refresh", globals[0].Key())
	assert.Equal(t, model.Boolean, globals[0].ReturnType)

	locals := slices.Collect(Locals("a.lua", src))
	require.Len(t, locals, 1)
	assert.Equal(t, "local.count", locals[0].Key())
	assert.Equal(t, model.Number, locals[0].ReturnType)
}

func TestTableAssigned(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`menu.onShow = function(config, [mode]) return { } end`)

	fns := slices.Collect(TableAssigned("m.lua", src))
	require.Len(t, fns, 1)
	assert.Equal(t, "menu.onShow", fns[0].Key())
	assert.Equal(t, model.Table, fns[0].ReturnType)
	assert.Equal(t, []model.Parameter{
		{Name: "config", Type: model.Any},
		{Name: "mode", Type: model.Any, Optional: true},
	}, fns[0].Parameters)
}

func TestDefinitionsIgnoreStringsAndComments(t *testing.T) {
	t.Parallel()

	src := scrub.Prepare(`
-- function Commented(a) end
local s = "function Quoted(b) end"
`)

	assert.Empty(t, slices.Collect(Globals("a.lua", src)))
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []model.Parameter
	}{
		{"empty", "  ", []model.Parameter{}},
		{"plain", "a, b", []model.Parameter{{Name: "a", Type: model.Any}, {Name: "b", Type: model.Any}}},
		{"optional", "[a]", []model.Parameter{{Name: "a", Type: model.Any, Optional: true}}},
		{"default number", "n = 5", []model.Parameter{{Name: "n", Type: model.Number}}},
		{"default string", `s = "x"`, []model.Parameter{{Name: "s", Type: model.String}}},
		{"vararg", "...", []model.Parameter{{Name: "...", Type: model.Any}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseParams(tt.in))
		})
	}
}

func TestInferReturn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.Boolean, InferReturn("if x then return false end"))
	assert.Equal(t, model.Number, InferReturn("return 12"))
	assert.Equal(t, model.String, InferReturn(`return ""`))
	assert.Equal(t, model.Table, InferReturn("return {}"))
	assert.Equal(t, model.Any, InferReturn("return x"))
	assert.Equal(t, model.Any, InferReturn(""))
}
