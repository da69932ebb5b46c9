package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

const cdefSource = `local ffi = require("ffi")
local C = ffi.C
ffi.cdef[[
	typedef uint64_t UniverseID;
	typedef struct {
		const char* name;
		int amount;
	} WareInfo;
	int Foo(int a);
	int Foo(int a, int b);
	const char* GetName(UniverseID id);
	void Reset(void);
	int Fmt(const char* f, ...);
]]
`

func TestFFIFunctions(t *testing.T) {
	t.Parallel()

	fns := slices.Collect(FFIFunctions("ffi.lua", cdefSource))
	require.Len(t, fns, 5)

	assert.Equal(t, "C.Foo", fns[0].Key())
	assert.Equal(t, "int Foo(int a);", fns[0].Declaration)
	assert.Equal(t, []model.Parameter{{Name: "a", Type: "int"}}, fns[0].Parameters)
	assert.Equal(t, model.Type("int"), fns[0].ReturnType)

	assert.Equal(t, "GetName", fns[2].Name)
	assert.Equal(t, model.Type("const char*"), fns[2].ReturnType)
	assert.Equal(t, []model.Parameter{{Name: "id", Type: "UniverseID"}}, fns[2].Parameters)

	assert.Equal(t, model.Type("void"), fns[3].ReturnType)
	assert.Empty(t, fns[3].Parameters)

	assert.Equal(t, []model.Parameter{
		{Name: "f", Type: "const char*"},
		{Name: "varargs", Type: "..."},
	}, fns[4].Parameters)
}

func TestFFIFunctionsOutsideCdefIgnored(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slices.Collect(FFIFunctions("a.lua", "int Foo(int a);\n")))
}

func TestFFITypes(t *testing.T) {
	t.Parallel()

	types := slices.Collect(FFITypes("ffi.lua", cdefSource))
	require.Len(t, types, 2)

	assert.Equal(t, model.CType{
		Name:        "UniverseID",
		Kind:        "uint64_t",
		Declaration: "typedef uint64_t UniverseID;",
		File:        "ffi.lua",
	}, types[0])
	assert.Equal(t, "WareInfo", types[1].Name)
	assert.Equal(t, "struct", types[1].Kind)
	assert.Contains(t, types[1].Declaration, "int amount;")
}

func TestParseCParams(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseCParams("void"))
	assert.Empty(t, ParseCParams(""))
	assert.Equal(t, []model.Parameter{{Name: "", Type: "int"}}, ParseCParams("int"))
	assert.Equal(t, []model.Parameter{
		{Name: "buf", Type: "char*"},
		{Name: "n", Type: "size_t"},
	}, ParseCParams("char* buf, size_t n"))
}
