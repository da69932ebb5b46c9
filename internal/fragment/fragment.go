// Package fragment persists catalog collections between runs as hjson files,
// one per record kind, and loads them back to pre-seed a run.
package fragment

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	hjson "github.com/hjson/hjson-go/v4"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

// Kind names one fragment file.
type Kind string

const (
	Lua          Kind = "lua"
	FFI          Kind = "ffi"
	Helper       Kind = "helper"
	Undocumented Kind = "undocumented"
	Exposed      Kind = "exposed"
	FFINamespace Kind = "ffi_namespace"
	CNamespace   Kind = "c_namespace"
)

// DefaultFiles are the file names used when none are configured.
var DefaultFiles = map[Kind]string{
	Lua:          "x4-lua-functions.hjson",
	FFI:          "x4-ffi-definitions.hjson",
	Helper:       "x4-helper-functions.hjson",
	Undocumented: "x4-undocumented-functions.hjson",
	Exposed:      "x4-global-access.hjson",
	FFINamespace: "x4-ffi-namespace.hjson",
	CNamespace:   "x4-c-namespace.hjson",
}

// ffiFile is the on-disk shape of the FFI fragment.
type ffiFile struct {
	Functions map[string]*model.Function `json:"functions"`
	Types     map[string]model.CType     `json:"types"`
}

// Store reads and writes the fragment files of one directory.
type Store struct {
	Dir    string
	Files  map[Kind]string
	Logger *slog.Logger
}

// Path returns the file path of kind.
func (s *Store) Path(kind Kind) string {
	name := s.Files[kind]
	if name == "" {
		name = DefaultFiles[kind]
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Functions loads a function fragment. A missing or malformed file yields
// no records. Records come back sorted by name.
func (s *Store) Functions(kind Kind) []*model.Function {
	var m map[string]*model.Function
	if !s.load(kind, &m) {
		return nil
	}
	namespace, k := defaults(kind)
	return functionList(m, namespace, k)
}

// FFI loads the FFI fragment.
func (s *Store) FFI() ([]*model.Function, []model.CType) {
	var f ffiFile
	if !s.load(FFI, &f) {
		return nil, nil
	}
	namespace, k := defaults(FFI)
	fns := functionList(f.Functions, namespace, k)
	names := sortedKeys(f.Types)
	types := make([]model.CType, 0, len(names))
	for _, name := range names {
		t := f.Types[name]
		if t.Name == "" {
			t.Name = name
		}
		types = append(types, t)
	}
	return fns, types
}

// Exposures loads the exposure fragment.
func (s *Store) Exposures() []*model.Exposure {
	var m map[string]*model.Exposure
	if !s.load(Exposed, &m) {
		return nil
	}
	out := make([]*model.Exposure, 0, len(m))
	for _, name := range sortedKeys(m) {
		e := m[name]
		if e == nil {
			continue
		}
		if e.Name == "" {
			e.Name = name
		}
		out = append(out, e)
	}
	return out
}

// SaveFunctions writes fns keyed by name.
func (s *Store) SaveFunctions(kind Kind, fns []*model.Function) error {
	m := make(map[string]*model.Function, len(fns))
	for _, fn := range fns {
		m[fn.Name] = fn
	}
	return s.save(kind, m)
}

// SaveFFI writes the FFI functions and types.
func (s *Store) SaveFFI(fns []*model.Function, types []model.CType) error {
	f := ffiFile{
		Functions: make(map[string]*model.Function, len(fns)),
		Types:     make(map[string]model.CType, len(types)),
	}
	for _, fn := range fns {
		f.Functions[fn.Name] = fn
	}
	for _, t := range types {
		f.Types[t.Name] = t
	}
	return s.save(FFI, f)
}

// SaveExposures writes the exposure mappings keyed by exposed name.
func (s *Store) SaveExposures(exposures []*model.Exposure) error {
	m := make(map[string]*model.Exposure, len(exposures))
	for _, e := range exposures {
		m[e.Name] = e
	}
	return s.save(Exposed, m)
}

// load decodes the fragment of kind into v. It reports false when the file
// is missing or cannot be decoded; a decode failure is logged.
func (s *Store) load(kind Kind, v any) bool {
	path := s.Path(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger().Warn("reading fragment", "kind", kind, "path", path, "error", err)
		} else {
			s.logger().Info("no fragment, skipping import", "kind", kind, "path", path)
		}
		return false
	}
	if err := hjson.Unmarshal(data, v); err != nil {
		s.logger().Warn("malformed fragment ignored", "kind", kind, "path", path, "error", err)
		return false
	}
	return true
}

func (s *Store) save(kind Kind, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encoding %s fragment: %w", kind, err)
	}
	path := s.Path(kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating fragment directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s fragment: %w", kind, err)
	}
	s.logger().Info("exported fragment", "kind", kind, "path", path)
	return nil
}

func encode(v any) ([]byte, error) {
	opts := hjson.DefaultOptions()
	opts.IndentBy = "  "
	opts.BracesSameLine = true
	opts.Eol = "\n"
	return hjson.MarshalWithOptions(v, opts)
}

func (s *Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// defaults returns the namespace and kind that records of a fragment kind
// carry when the file omits them.
func defaults(kind Kind) (string, model.Kind) {
	switch kind {
	case FFI:
		return model.NamespaceC, model.KindFFI
	case Helper:
		return model.NamespaceHelper, model.KindHelper
	case Undocumented:
		return model.NamespaceGlobal, model.KindUndocumented
	default:
		return model.NamespaceGlobal, model.KindReference
	}
}

func functionList(m map[string]*model.Function, namespace string, kind model.Kind) []*model.Function {
	out := make([]*model.Function, 0, len(m))
	for _, name := range sortedKeys(m) {
		fn := m[name]
		if fn == nil {
			continue
		}
		if fn.Name == "" {
			fn.Name = name
		}
		if fn.Namespace == "" {
			fn.Namespace = namespace
		}
		if fn.Kind == "" {
			fn.Kind = kind
		}
		if fn.Parameters == nil {
			fn.Parameters = []model.Parameter{}
		}
		out = append(out, fn)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
