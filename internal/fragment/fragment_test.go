package fragment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

func TestFunctionsRoundTrip(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir()}
	fns := []*model.Function{
		{
			Name:        "GetFoo",
			Namespace:   model.NamespaceGlobal,
			Kind:        model.KindReference,
			Parameters:  []model.Parameter{{Name: "component", Type: model.Any}, {Name: "flag", Type: model.Any, Optional: true}},
			ReturnType:  "int",
			Description: "Returns the foo",
			Detailed:    "line one\nline two",
			Notes:       "note",
		},
		{
			Name:       "Alpha",
			Namespace:  model.NamespaceGlobal,
			Kind:       model.KindReference,
			Parameters: []model.Parameter{},
			ReturnType: model.Unknown,
			Deprecated: true,
		},
	}
	require.NoError(t, s.SaveFunctions(Lua, fns))
	assert.FileExists(t, filepath.Join(s.Dir, DefaultFiles[Lua]))

	got := s.Functions(Lua)
	require.Len(t, got, 2)
	assert.Equal(t, fns[1], got[0], "records come back sorted by name")
	assert.Equal(t, fns[0], got[1])
}

func TestFunctionsFillDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFiles[Helper]), []byte(`{
  round: {
    parameters: [{ "name": "v", "type": "number" }]
    returnType: number
    description: Rounds a value
    detailed: ""
    notes: ""
  }
}`), 0o644))

	got := (&Store{Dir: dir}).Functions(Helper)
	require.Len(t, got, 1)
	assert.Equal(t, "round", got[0].Name)
	assert.Equal(t, model.NamespaceHelper, got[0].Namespace)
	assert.Equal(t, model.KindHelper, got[0].Kind)
	assert.Equal(t, "Helper.round", got[0].Key())
	assert.Equal(t, []model.Parameter{{Name: "v", Type: model.Number}}, got[0].Parameters)
}

func TestMissingAndMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := &Store{Dir: dir}
	assert.Nil(t, s.Functions(Undocumented))
	assert.Nil(t, s.Exposures())

	require.NoError(t, os.WriteFile(s.Path(Undocumented), []byte("{ this is : [ not closed"), 0o644))
	assert.Nil(t, s.Functions(Undocumented))

	fns, types := s.FFI()
	assert.Nil(t, fns)
	assert.Nil(t, types)
}

func TestFFIRoundTrip(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir()}
	fns := []*model.Function{{
		Name:        "IsReady",
		Namespace:   model.NamespaceC,
		Kind:        model.KindFFI,
		Parameters:  []model.Parameter{},
		ReturnType:  "bool",
		Source:      "menu.lua",
		Declaration: "bool IsReady(void);",
	}}
	types := []model.CType{{Name: "UniverseID", Kind: "uint64_t", Declaration: "typedef uint64_t UniverseID;", File: "menu.lua"}}
	require.NoError(t, s.SaveFFI(fns, types))

	gotFns, gotTypes := s.FFI()
	assert.Equal(t, fns, gotFns)
	assert.Equal(t, types, gotTypes)
}

func TestExposuresRoundTrip(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir(), Files: map[Kind]string{Exposed: "custom.hjson"}}
	exposures := []*model.Exposure{
		{Name: "GetFoo", Kind: model.Direct, Target: "menu.getFoo", File: "a.lua", Description: "Global access to menu.getFoo"},
		{
			Name:   "Prep",
			Kind:   model.Wrapped,
			Target: "menu.prep",
			File:   "a.lua",
			Wrapper: &model.Wrapper{
				Params:       "...",
				TargetArgs:   "menu, ...",
				Fixed:        []string{"menu"},
				ForwardsRest: true,
				Transform:    model.Prepend,
			},
			Description: "Wrapper for menu.prep with parameter transformation",
		},
	}
	require.NoError(t, s.SaveExposures(exposures))
	assert.FileExists(t, filepath.Join(s.Dir, "custom.hjson"))

	assert.Equal(t, exposures, s.Exposures())
}

func TestPath(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "elsewhere.hjson")
	s := &Store{Dir: "hjson", Files: map[Kind]string{Lua: abs}}

	assert.Equal(t, abs, s.Path(Lua))
	assert.Equal(t, filepath.Join("hjson", DefaultFiles[Helper]), s.Path(Helper))
}

func TestNamespaceDefaultIsWritten(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir()}

	ns := s.Namespace(FFINamespace)
	assert.Equal(t, DefaultFFINamespace(), ns)
	require.FileExists(t, s.Path(FFINamespace))

	assert.Equal(t, DefaultFFINamespace(), s.Namespace(FFINamespace))
	assert.Equal(t, DefaultCNamespace(), s.Namespace(CNamespace))
}

func TestNamespaceCustom(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(s.Path(CNamespace), []byte(`{
  description: "---@class C"
  methods: [
    { "name": "GetPlayerID", "description": "", "parameters": [], "returnType": "UniverseID" }
  ]
}`), 0o644))

	ns := s.Namespace(CNamespace)
	assert.Equal(t, "---@class C", ns.Description)
	require.Len(t, ns.Methods, 1)
	assert.Equal(t, "GetPlayerID", ns.Methods[0].Name)
	assert.Equal(t, model.Type("UniverseID"), ns.Methods[0].ReturnType)
}

func TestNamespaceMalformedKept(t *testing.T) {
	t.Parallel()

	s := &Store{Dir: t.TempDir()}
	bad := []byte("{ description: [ broken")
	require.NoError(t, os.WriteFile(s.Path(CNamespace), bad, 0o644))

	assert.Equal(t, DefaultCNamespace(), s.Namespace(CNamespace))

	data, err := os.ReadFile(s.Path(CNamespace))
	require.NoError(t, err)
	assert.Equal(t, bad, data)
}
