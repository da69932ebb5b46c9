package fragment

import (
	"errors"
	"io/fs"
	"os"

	hjson "github.com/hjson/hjson-go/v4"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

// Method is a hand-written member of a namespace header.
type Method struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  []model.Parameter `json:"parameters"`
	ReturnType  model.Type        `json:"returnType"`
}

// Namespace is the preamble emitted before a namespace's generated
// declarations: free text followed by declared methods.
type Namespace struct {
	Description string   `json:"description"`
	Methods     []Method `json:"methods"`
}

// DefaultFFINamespace declares the ffi module itself.
func DefaultFFINamespace() Namespace {
	return Namespace{
		Description: "-- X4: Foundations FFI API\n-- Generated automatically from game files\n\n---@class ffi\nffi = require(\"ffi\")",
		Methods: []Method{
			{
				Name:        "string",
				Description: "Converts arg to a Lua string",
				Parameters:  []model.Parameter{{Name: "arg", Type: model.Any}},
				ReturnType:  model.String,
			},
			{
				Name:        "new",
				Description: "Initialize/convert the Lua value to a C data type\nThis creates a new C data object",
				Parameters: []model.Parameter{
					{Name: "typeDescription", Type: model.String, Description: "C data type"},
					{Name: "arg", Type: model.Any, Description: "Lua value"},
				},
				ReturnType: "cdata",
			},
		},
	}
}

// DefaultCNamespace declares the C table.
func DefaultCNamespace() Namespace {
	return Namespace{
		Description: "---@class C\nC = ffi.C",
		Methods:     []Method{},
	}
}

// Namespace loads the header definition of kind (FFINamespace or
// CNamespace). When the file does not exist the default is written there
// for later editing; a malformed file is left alone and the default used.
func (s *Store) Namespace(kind Kind) Namespace {
	def := DefaultCNamespace()
	if kind == FFINamespace {
		def = DefaultFFINamespace()
	}

	path := s.Path(kind)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var ns Namespace
		if err := hjson.Unmarshal(data, &ns); err != nil {
			s.logger().Warn("malformed namespace definition, using default", "path", path, "error", err)
			return def
		}
		return ns
	case !errors.Is(err, fs.ErrNotExist):
		s.logger().Warn("reading namespace definition, using default", "path", path, "error", err)
		return def
	}

	s.logger().Info("using default namespace definition", "kind", kind)
	if err := s.save(kind, def); err != nil {
		s.logger().Warn("exporting default namespace definition", "error", err)
	}
	return def
}
