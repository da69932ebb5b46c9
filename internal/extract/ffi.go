package extract

import (
	"iter"
	"regexp"
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

var (
	cdefBlockRe = regexp.MustCompile(`ffi\.cdef\[\[([\s\S]*?)\]\]`)
	typedefRe   = regexp.MustCompile(`(?m)^[ \t]*typedef[ \t\n]+(struct|enum|union|\w+)([ \t\n]+\{[\s\S]*?\}|[ \t]+\w+)?[ \t\n]+(\w+);`)
	cFuncRe     = regexp.MustCompile(`(?:((?:const\s+)?(?:\w+(?:\s*\*\s*(?:const)?)*?))\s+)?(\w+)\s*\((.*?)\);`)
	cParamRe    = regexp.MustCompile(`^(?:((?:const\s+)?(?:\w+(?:\s*\*\s*(?:const)?)*?))\s+)?(\w+|\.\.\.)$`)
)

// CdefBlocks returns the contents of every ffi.cdef[[ ... ]] block in raw.
func CdefBlocks(raw string) []string {
	var blocks []string
	for _, m := range cdefBlockRe.FindAllStringSubmatch(raw, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// FFIFunctions yields the C function declarations inside cdef blocks, under
// the C namespace. raw must be the unscrubbed file content.
func FFIFunctions(file, raw string) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, block := range CdefBlocks(raw) {
			for _, m := range cFuncRe.FindAllStringSubmatch(block, -1) {
				returnType := model.Void
				if rt := strings.TrimSpace(m[1]); rt != "" {
					returnType = model.Type(rt)
				}
				fn := &model.Function{
					Name:        m[2],
					Namespace:   model.NamespaceC,
					Kind:        model.KindFFI,
					Parameters:  ParseCParams(m[3]),
					ReturnType:  returnType,
					Source:      file,
					Declaration: strings.TrimSpace(m[0]),
				}
				if !yield(fn) {
					return
				}
			}
		}
	}
}

// FFITypes yields the typedefs inside cdef blocks.
func FFITypes(file, raw string) iter.Seq[model.CType] {
	return func(yield func(model.CType) bool) {
		for _, block := range CdefBlocks(raw) {
			for _, m := range typedefRe.FindAllStringSubmatch(block, -1) {
				t := model.CType{
					Name:        m[3],
					Kind:        m[1],
					Declaration: strings.TrimSpace(m[0]),
					File:        file,
				}
				if !yield(t) {
					return
				}
			}
		}
	}
}

// ParseCParams splits a C parameter list into typed parameters. "void"
// declares no parameters and "..." becomes a parameter named varargs.
func ParseCParams(s string) []model.Parameter {
	params := []model.Parameter{}
	s = strings.TrimSpace(s)
	if s == "" || s == "void" {
		return params
	}
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		m := cParamRe.FindStringSubmatch(raw)
		if m == nil {
			params = append(params, model.Parameter{Type: model.Type(raw)})
			continue
		}
		typ, name := strings.TrimSpace(m[1]), m[2]
		switch {
		case name == "...":
			name, typ = "varargs", "..."
		case typ == "":
			// Unnamed parameter: the single word is the type.
			name, typ = "", raw
		}
		params = append(params, model.Parameter{Name: name, Type: model.Type(typ)})
	}
	return params
}
