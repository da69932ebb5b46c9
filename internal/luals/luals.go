// Package luals renders catalog collections as LuaLS "---@meta" declaration
// files.
package luals

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/fragment"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

var (
	bodyRe  = regexp.MustCompile(`\{([\s\S]*)\}`)
	fieldRe = regexp.MustCompile(`^(.*?[\s*])([A-Za-z_]\w*)\s*(\[\s*\w*\s*\])?$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// DefaultSingleString lists inferred functions that are always declared
// with one message parameter.
var DefaultSingleString = []string{"DebugError", "Logf", "ErrorLog", "DebugLog"}

// Emitter renders declaration files. Records are ordered by name using
// locale-aware collation, so output does not depend on insertion order.
type Emitter struct {
	collator     *collate.Collator
	singleString map[string]bool
}

// New creates an Emitter. Inferred functions named in singleString are
// declared as taking one string message.
func New(singleString []string) *Emitter {
	e := &Emitter{
		collator:     collate.New(language.English),
		singleString: make(map[string]bool, len(singleString)),
	}
	for _, name := range singleString {
		e.singleString[name] = true
	}
	return e
}

func (e *Emitter) compare(a, b string) int {
	if c := e.collator.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (e *Emitter) sorted(fns []*model.Function) []*model.Function {
	out := slices.Clone(fns)
	slices.SortStableFunc(out, func(a, b *model.Function) int { return e.compare(a.Name, b.Name) })
	return out
}

// LuaAPI renders the functions documented on the reference page.
func (e *Emitter) LuaAPI(fns []*model.Function) string {
	var b strings.Builder
	b.WriteString("---@meta\n\n")
	b.WriteString("-- X4: Foundations Lua API\n")
	b.WriteString("-- Generated automatically from Wiki documentation\n\n")

	for _, fn := range e.sorted(fns) {
		if fn.Description != "" {
			fmt.Fprintf(&b, "-- %s\n", commentLines(fn.Description))
		}
		if fn.Detailed != "" {
			fmt.Fprintf(&b, "-- Detailed: %s\n", commentLines(fn.Detailed))
		}
		writeNotes(&b, fn.Notes)
		if fn.Deprecated {
			b.WriteString("---@deprecated\n")
		}
		writeParams(&b, fn.Parameters, true, false)
		if fn.ReturnType != "" && fn.ReturnType != model.Unknown {
			fmt.Fprintf(&b, "---@return %s\n", fn.ReturnType)
		}
		fmt.Fprintf(&b, "function %s(%s) end\n\n", fn.Name, strings.Join(fn.ParamNames(), ", "))
	}
	return b.String()
}

// FFIAPI renders the ffi and C namespace headers followed by every foreign
// function as a member of C.
func (e *Emitter) FFIAPI(ffiNS, cNS fragment.Namespace, fns []*model.Function) string {
	var b strings.Builder
	b.WriteString("---@meta\n\n")
	writeNamespace(&b, "ffi", ffiNS)
	writeNamespace(&b, "C", cNS)

	for _, fn := range e.sorted(fns) {
		fmt.Fprintf(&b, "-- FFI Function: %s\n", fn.Declaration)
		names := make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			names[i] = orDefault(p.Name, "arg")
			fmt.Fprintf(&b, "---@param %s %s\n", names[i], orDefault(string(p.Type), string(model.Any)))
		}
		if fn.ReturnType != "" && fn.ReturnType != model.Void {
			fmt.Fprintf(&b, "---@return %s\n", fn.ReturnType)
		}
		fmt.Fprintf(&b, "function C.%s(%s) end\n\n", fn.Name, strings.Join(names, ", "))
	}
	return b.String()
}

func writeNamespace(b *strings.Builder, table string, ns fragment.Namespace) {
	b.WriteString(ns.Description + "\n\n")
	for _, m := range ns.Methods {
		if m.Description != "" {
			for _, line := range splitLines(m.Description) {
				fmt.Fprintf(b, "--%s\n", line)
			}
		}
		names := make([]string, len(m.Parameters))
		for i, p := range m.Parameters {
			names[i] = p.Name
			desc := ""
			if p.Description != "" {
				desc = " " + p.Description
			}
			fmt.Fprintf(b, "---@param %s %s%s\n", p.Name, p.Type, desc)
		}
		if m.ReturnType != "" {
			fmt.Fprintf(b, "---@return %s\n", m.ReturnType)
		}
		fmt.Fprintf(b, "function %s.%s(%s) end\n\n", table, m.Name, strings.Join(names, ", "))
	}
}

// FFITypes renders foreign types as classes. Struct and union members
// become fields; pointer members are typed cdata*.
func (e *Emitter) FFITypes(types []model.CType) string {
	sorted := slices.Clone(types)
	slices.SortStableFunc(sorted, func(a, b model.CType) int { return e.compare(a.Name, b.Name) })

	var b strings.Builder
	b.WriteString("---@meta\n\n")
	b.WriteString("-- X4: Foundations FFI Types\n")
	b.WriteString("-- Generated automatically from game files\n\n")
	for _, t := range sorted {
		fmt.Fprintf(&b, "-- %s\n", t.Declaration)
		fmt.Fprintf(&b, "---@class %s\n", t.Name)
		if t.Kind == "struct" || t.Kind == "union" {
			for _, f := range Fields(t.Declaration) {
				fmt.Fprintf(&b, "---@field %s %s\n", f.Name, f.Type)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Field is one member of a struct or union declaration.
type Field struct {
	Name string
	Type string
}

// Fields parses the members of the braced body of a C declaration.
func Fields(declaration string) []Field {
	m := bodyRe.FindStringSubmatch(declaration)
	if m == nil {
		return nil
	}
	var out []Field
	for _, member := range strings.Split(strings.TrimSpace(m[1]), ";") {
		fm := fieldRe.FindStringSubmatch(strings.TrimSpace(member))
		if fm == nil {
			continue
		}
		typ := spaceRe.ReplaceAllString(strings.TrimSpace(fm[1]), " ")
		if strings.Contains(typ, "*") {
			typ = "cdata*"
		}
		if fm[3] != "" {
			typ += "[]"
		}
		out = append(out, Field{Name: fm[2], Type: typ})
	}
	return out
}

// HelperAPI renders the Helper table and its functions.
func (e *Emitter) HelperAPI(fns []*model.Function) string {
	var b strings.Builder
	b.WriteString("---@meta\n\n")
	b.WriteString("-- X4: Foundations Helper API\n")
	b.WriteString("-- Generated automatically from game files\n\n")
	b.WriteString("Helper = {}\n\n")

	for _, fn := range e.sorted(fns) {
		if fn.Description != "" {
			fmt.Fprintf(&b, "-- %s\n", commentLines(fn.Description))
		}
		fmt.Fprintf(&b, "-- Source: %s\n", fn.Source)
		writeNotes(&b, fn.Notes)
		writeParams(&b, fn.Parameters, false, false)
		if fn.ReturnType != "" && fn.ReturnType != model.Unknown {
			fmt.Fprintf(&b, "---@return %s\n", fn.ReturnType)
		}
		fmt.Fprintf(&b, "function Helper.%s(%s) end\n\n", fn.Name, strings.Join(fn.ParamNames(), ", "))
	}
	return b.String()
}

// UndocumentedAPI renders the inferred functions with the files they were
// observed in.
func (e *Emitter) UndocumentedAPI(fns []*model.Function) string {
	var b strings.Builder
	b.WriteString("---@meta\n\n")
	b.WriteString("-- X4: Foundations Undocumented API\n")
	b.WriteString("-- Generated automatically by analyzing game files\n")
	b.WriteString("-- These functions are not officially documented and may change without notice\n\n")

	for _, fn := range e.sorted(fns) {
		if fn.Description != "" {
			fmt.Fprintf(&b, "-- %s\n", commentLines(fn.Description))
		}
		if len(fn.Files) > 0 {
			files := slices.Clone(fn.Files)
			slices.Sort(files)
			fmt.Fprintf(&b, "-- Found in: %s\n", strings.Join(slices.Compact(files), ", "))
		}
		if e.singleString[fn.Name] {
			b.WriteString("---@param message string # Message to display/log (can include string concatenation)\n")
			fmt.Fprintf(&b, "function %s(message) end\n\n", fn.Name)
			continue
		}
		writeNotes(&b, fn.Notes)
		writeParams(&b, fn.Parameters, false, true)
		if fn.ReturnType != "" && fn.ReturnType != model.Unknown {
			fmt.Fprintf(&b, "---@return %s\n", fn.ReturnType)
		}
		fmt.Fprintf(&b, "function %s(%s) end\n\n", fn.Name, strings.Join(fn.ParamNames(), ", "))
	}
	return b.String()
}

// Exposed renders one file per target namespace. Exposures whose target is
// not a "namespace.name" path are not rendered.
func (e *Emitter) Exposed(resolved []model.ResolvedExposure) map[string]string {
	sorted := slices.Clone(resolved)
	slices.SortStableFunc(sorted, func(a, b model.ResolvedExposure) int { return e.compare(a.Name, b.Name) })

	groups := make(map[string]*strings.Builder)
	for _, r := range sorted {
		ns := r.TargetNamespace()
		if ns == "" {
			continue
		}
		b, ok := groups[ns]
		if !ok {
			b = &strings.Builder{}
			b.WriteString("---@meta\n\n")
			fmt.Fprintf(b, "-- X4: Foundations Globally Exposed Functions from %s\n", ns)
			b.WriteString("-- Generated automatically from game files\n")
			fmt.Fprintf(b, "-- These functions are made globally accessible via AddGlobalAccess from the %s module\n\n", ns)
			groups[ns] = b
		}
		writeExposure(b, r)
	}

	out := make(map[string]string, len(groups))
	for ns, b := range groups {
		out[ns] = b.String()
	}
	return out
}

func writeExposure(b *strings.Builder, r model.ResolvedExposure) {
	fmt.Fprintf(b, "-- %s\n", r.Description)
	fmt.Fprintf(b, "-- Mapped from: %s\n", r.Target)
	fmt.Fprintf(b, "-- Source: %s\n", r.File)
	if r.Wrapper != nil {
		fmt.Fprintf(b, "-- Parameter transformation: %s\n", r.Wrapper.Describe())
	}

	writeParams(b, r.Parameters, true, false)
	if r.Variadic {
		if r.Unresolved && r.Kind == model.Direct {
			b.WriteString("---@param ... any # Original function parameters unknown\n")
		} else {
			fmt.Fprintf(b, "---@param ... any # Parameters derived from %s\n", r.Target)
		}
	}
	if r.ReturnType != "" && r.ReturnType != model.Unknown && r.ReturnType != model.Void {
		fmt.Fprintf(b, "---@return %s\n", r.ReturnType)
	}

	names := make([]string, 0, len(r.Parameters)+1)
	for _, p := range r.Parameters {
		names = append(names, p.Name)
	}
	if r.Variadic {
		names = append(names, "...")
	}
	fmt.Fprintf(b, "function %s(%s) end\n\n", r.Name, strings.Join(names, ", "))
}

func writeParams(b *strings.Builder, params []model.Parameter, optional, describe bool) {
	for _, p := range params {
		flag := ""
		if optional && p.Optional {
			flag = "?"
		}
		desc := ""
		if describe && p.Description != "" {
			desc = " # " + p.Description
		}
		fmt.Fprintf(b, "---@param %s%s %s%s\n", p.Name, flag, p.Type, desc)
	}
}

func writeNotes(b *strings.Builder, notes string) {
	if notes == "" {
		return
	}
	lines := splitLines(notes)
	fmt.Fprintf(b, "-- Notes: %s\n", lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(b, "--   %s\n", line)
	}
}

func commentLines(s string) string {
	return strings.ReplaceAll(s, "\n", "\n-- ")
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
