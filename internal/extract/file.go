package extract

import (
	"iter"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

// Sink receives everything the passes find in one file.
type Sink interface {
	Insert(fn *model.Function) bool
	AddFFI(fn *model.Function) bool
	AddType(t model.CType) bool
	AddHelper(fn *model.Function) bool
	AddExposure(e *model.Exposure)
	NoteLocal(name string)
	NoteGlobal(name string)
	NotePrefixed(prefix, name string)
}

// Stats counts what File fed into a Sink.
type Stats struct {
	Definitions int
	FFI         int
	Types       int
	Helpers     int
	Exposures   int
}

// File runs every pass over one source file. The pass order is fixed
// because the catalog keeps the earliest record on a tie.
func File(sink Sink, file string, src *scrub.Source) Stats {
	var st Stats
	definitions := []func(string, *scrub.Source) iter.Seq[*model.Function]{
		func(f string, s *scrub.Source) iter.Seq[*model.Function] { return FFIFunctions(f, s.Raw) },
		Globals,
		Namespaced,
		TableAssigned,
		Locals,
	}
	for _, pass := range definitions {
		for fn := range pass(file, src) {
			if sink.Insert(fn) {
				st.Definitions++
			}
			if fn.Kind == model.KindLocal {
				sink.NoteLocal(fn.Name)
			}
		}
	}

	for fn := range FFIFunctions(file, src.Raw) {
		if sink.AddFFI(fn) {
			st.FFI++
		}
	}
	for t := range FFITypes(file, src.Raw) {
		if sink.AddType(t) {
			st.Types++
		}
	}
	for fn := range Helpers(file, src) {
		if sink.AddHelper(fn) {
			st.Helpers++
		}
	}
	for e := range Exposures(file, src) {
		sink.AddExposure(e)
		st.Exposures++
	}

	locals, globals := DefinedNames(src.Clean)
	for _, name := range locals {
		sink.NoteLocal(name)
	}
	for _, name := range globals {
		sink.NoteGlobal(name)
	}
	for p := range PrefixedCalls(src.Clean) {
		sink.NotePrefixed(p.Prefix, p.Name)
	}
	return st
}
