package luals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/fragment"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

func TestLuaAPI(t *testing.T) {
	t.Parallel()

	fns := []*model.Function{
		{Name: "OldCall", Parameters: []model.Parameter{}, ReturnType: model.Unknown, Deprecated: true},
		{
			Name: "GetFoo",
			Parameters: []model.Parameter{
				{Name: "component", Type: model.Any},
				{Name: "flag", Type: model.Any, Optional: true},
			},
			ReturnType:  "int",
			Description: "Returns the foo",
			Detailed:    "first\nsecond",
			Notes:       "Some note",
		},
	}

	want := "---@meta\n\n" +
		"-- X4: Foundations Lua API\n" +
		"-- Generated automatically from Wiki documentation\n\n" +
		"-- Returns the foo\n" +
		"-- Detailed: first\n-- second\n" +
		"-- Notes: Some note\n" +
		"---@param component any\n" +
		"---@param flag? any\n" +
		"---@return int\n" +
		"function GetFoo(component, flag) end\n\n" +
		"---@deprecated\n" +
		"function OldCall() end\n\n"

	assert.Equal(t, want, New(nil).LuaAPI(fns))
}

func TestSortingIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	fns := []*model.Function{
		{Name: "gamma", Parameters: []model.Parameter{}},
		{Name: "Beta", Parameters: []model.Parameter{}},
		{Name: "alpha", Parameters: []model.Parameter{}},
	}

	out := New(nil).HelperAPI(fns)
	a := strings.Index(out, "Helper.alpha(")
	b := strings.Index(out, "Helper.Beta(")
	g := strings.Index(out, "Helper.gamma(")
	require.True(t, a >= 0 && b >= 0 && g >= 0)
	assert.Less(t, a, b)
	assert.Less(t, b, g)
}

func TestOutputIndependentOfInputOrder(t *testing.T) {
	t.Parallel()

	x := &model.Function{Name: "X", Parameters: []model.Parameter{}, Files: []string{"b.lua", "a.lua"}}
	y := &model.Function{Name: "Y", Parameters: []model.Parameter{}, Files: []string{"c.lua"}}

	e := New(nil)
	assert.Equal(t, e.UndocumentedAPI([]*model.Function{x, y}), e.UndocumentedAPI([]*model.Function{y, x}))
	assert.Contains(t, e.UndocumentedAPI([]*model.Function{x}), "-- Found in: a.lua, b.lua\n")
}

func TestUndocumentedAPI(t *testing.T) {
	t.Parallel()

	fns := []*model.Function{
		{
			Name:        "DebugError",
			Parameters:  []model.Parameter{{Name: "arg1", Type: model.Any}, {Name: "arg2", Type: model.Any}},
			ReturnType:  model.Any,
			Files:       []string{"a.lua"},
			Description: "Undocumented function found in a.lua",
		},
		{
			Name:        "SetFlag",
			Parameters:  []model.Parameter{{Name: "flag", Type: model.Boolean, Description: "Boolean flag, example: true"}},
			ReturnType:  model.Any,
			Files:       []string{"b.lua"},
			Description: "Undocumented function found in b.lua",
		},
	}

	want := "---@meta\n\n" +
		"-- X4: Foundations Undocumented API\n" +
		"-- Generated automatically by analyzing game files\n" +
		"-- These functions are not officially documented and may change without notice\n\n" +
		"-- Undocumented function found in a.lua\n" +
		"-- Found in: a.lua\n" +
		"---@param message string # Message to display/log (can include string concatenation)\n" +
		"function DebugError(message) end\n\n" +
		"-- Undocumented function found in b.lua\n" +
		"-- Found in: b.lua\n" +
		"---@param flag boolean # Boolean flag, example: true\n" +
		"---@return any\n" +
		"function SetFlag(flag) end\n\n"

	assert.Equal(t, want, New(DefaultSingleString).UndocumentedAPI(fns))
}

func TestFFIAPI(t *testing.T) {
	t.Parallel()

	fns := []*model.Function{{
		Name:        "GetName",
		Parameters:  []model.Parameter{{Name: "id", Type: "UniverseID"}, {Type: "int"}},
		ReturnType:  "const char*",
		Declaration: "const char* GetName(UniverseID id, int);",
	}, {
		Name:        "Reset",
		Parameters:  []model.Parameter{},
		ReturnType:  model.Void,
		Declaration: "void Reset(void);",
	}}

	out := New(nil).FFIAPI(fragment.DefaultFFINamespace(), fragment.DefaultCNamespace(), fns)

	assert.True(t, strings.HasPrefix(out, "---@meta\n\n-- X4: Foundations FFI API\n"))
	assert.Contains(t, out, "function ffi.string(arg) end\n")
	assert.Contains(t, out, "---@param typeDescription string C data type\n")
	assert.Contains(t, out, "--Initialize/convert the Lua value to a C data type\n--This creates a new C data object\n")
	assert.Contains(t, out, "---@class C\nC = ffi.C\n\n")
	assert.Contains(t, out, "-- FFI Function: const char* GetName(UniverseID id, int);\n"+
		"---@param id UniverseID\n"+
		"---@param arg int\n"+
		"---@return const char*\n"+
		"function C.GetName(id, arg) end\n\n")
	assert.Contains(t, out, "-- FFI Function: void Reset(void);\nfunction C.Reset() end\n\n")
}

func TestFFITypes(t *testing.T) {
	t.Parallel()

	types := []model.CType{
		{Name: "WareInfo", Kind: "struct", Declaration: "typedef struct {\n\tconst char* name;\n\tint amount;\n\tuint32_t ids[4];\n} WareInfo;"},
		{Name: "UniverseID", Kind: "uint64_t", Declaration: "typedef uint64_t UniverseID;"},
	}

	out := New(nil).FFITypes(types)

	assert.Contains(t, out, "-- typedef uint64_t UniverseID;\n---@class UniverseID\n\n")
	assert.Contains(t, out, "---@class WareInfo\n"+
		"---@field name cdata*\n"+
		"---@field amount int\n"+
		"---@field ids uint32_t[]\n")
	assert.Less(t, strings.Index(out, "UniverseID"), strings.Index(out, "---@class WareInfo"))
}

func TestFields(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Fields("typedef int32_t X;"))
	assert.Equal(t, []Field{
		{Name: "x", Type: "float"},
		{Name: "next", Type: "cdata*"},
	}, Fields("typedef struct { float x; struct Node *next; } Node;"))
}

func TestExposed(t *testing.T) {
	t.Parallel()

	resolved := []model.ResolvedExposure{
		{
			Exposure: model.Exposure{
				Name: "GetFoo", Kind: model.Direct, Target: "menu.getFoo", File: "a.lua",
				Description: "Global access to menu.getFoo",
			},
			Parameters: []model.Parameter{{Name: "id", Type: model.Any}},
			ReturnType: model.Number,
		},
		{
			Exposure: model.Exposure{
				Name: "Prep", Kind: model.Wrapped, Target: "menu.prep", File: "a.lua",
				Wrapper:     &model.Wrapper{Params: "...", TargetArgs: "menu, ...", Fixed: []string{"menu"}, ForwardsRest: true, Transform: model.Prepend},
				Description: "Wrapper for menu.prep with parameter transformation",
			},
			Parameters: []model.Parameter{{Name: "count", Type: model.Number}},
			ReturnType: model.Any,
		},
		{
			Exposure: model.Exposure{
				Name: "Lost", Kind: model.Direct, Target: "Helper.lost", File: "b.lua",
				Description: "Global access to Helper.lost",
			},
			Parameters: []model.Parameter{},
			ReturnType: model.Any,
			Variadic:   true,
			Unresolved: true,
		},
		{
			Exposure:   model.Exposure{Name: "Flat", Kind: model.Direct, Target: "flat"},
			Parameters: []model.Parameter{},
		},
	}

	files := New(nil).Exposed(resolved)
	require.Len(t, files, 2)

	menu := files["menu"]
	assert.True(t, strings.HasPrefix(menu, "---@meta\n\n-- X4: Foundations Globally Exposed Functions from menu\n"))
	assert.Contains(t, menu, "-- Global access to menu.getFoo\n"+
		"-- Mapped from: menu.getFoo\n"+
		"-- Source: a.lua\n"+
		"---@param id any\n"+
		"---@return number\n"+
		"function GetFoo(id) end\n\n")
	assert.Contains(t, menu, "-- Parameter transformation: Prepends fixed parameters: menu\n"+
		"---@param count number\n"+
		"---@return any\n"+
		"function Prep(count) end\n\n")
	assert.Less(t, strings.Index(menu, "GetFoo"), strings.Index(menu, "Prep"))

	assert.Contains(t, files["Helper"], "---@param ... any # Original function parameters unknown\n"+
		"---@return any\n"+
		"function Lost(...) end\n\n")
}
