// Package infer recovers best-effort signatures for functions that have no
// formal definition, purely from the arguments observed at their call sites.
package infer

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

var callRe = regexp.MustCompile(`\b(\w+)\s*\(((?:[^()]|\([^()]*\))*)\)`)

// Filter decides whether a name is already known through a formal definition
// or cross-reference channel.
type Filter interface {
	Known(name string) bool
}

// Call is one observed call site.
type Call struct {
	Name string
	File string
	Args []string
}

// Engine collects call sites of unknown names across the corpus and folds
// them into inferred records.
type Engine struct {
	filter Filter
	order  []string
	calls  map[string][]Call
}

// NewEngine creates an Engine that skips names known to filter.
func NewEngine(filter Filter) *Engine {
	return &Engine{
		filter: filter,
		calls:  make(map[string][]Call),
	}
}

// Scan records every eligible call site in src. file is the name recorded in
// usages.
func (e *Engine) Scan(file string, src *scrub.Source) int {
	n := 0
	for call := range CallSites(file, src) {
		if !e.Eligible(call.Name) {
			continue
		}
		if _, seen := e.calls[call.Name]; !seen {
			e.order = append(e.order, call.Name)
		}
		e.calls[call.Name] = append(e.calls[call.Name], call)
		n++
	}
	return n
}

// Eligible reports whether calls to name should be inferred.
func (e *Engine) Eligible(name string) bool {
	if !Documentable(name) || IsStdlib(name) {
		return false
	}
	return e.filter == nil || !e.filter.Known(name)
}

// Names returns the eligible names in first-seen order.
func (e *Engine) Names() []string {
	return slices.Clone(e.order)
}

// Records folds the collected calls of every name into an inferred record.
func (e *Engine) Records() []*model.Function {
	out := make([]*model.Function, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, Fold(name, e.calls[name]))
	}
	return out
}

// Fold builds the inferred record for name from its calls, in order.
func Fold(name string, calls []Call) *model.Function {
	fn := &model.Function{
		Name:       name,
		Namespace:  model.NamespaceGlobal,
		Kind:       model.KindUndocumented,
		Parameters: []model.Parameter{},
		ReturnType: model.Any,
	}
	if len(calls) > 0 {
		fn.Description = "Undocumented function found in " + calls[0].File
		fn.Source = calls[0].File
	}

	var h Hypothesis
	files := make(map[string]struct{})
	for _, c := range calls {
		h = h.Observe(c.Args)
		fn.Usages = append(fn.Usages, model.Usage{File: c.File, Arguments: c.Args})
		if _, ok := files[c.File]; !ok {
			files[c.File] = struct{}{}
			fn.Files = append(fn.Files, c.File)
		}
	}
	if h.Params != nil {
		fn.Parameters = h.Params
	}
	slices.Sort(fn.Files)
	return fn
}

// CallSites yields the bare-name calls found in src. Calls whose name is
// immediately preceded by "." or ":" are already qualified and are skipped.
// Matching runs on the masked view so that parentheses inside string literals
// are ignored; argument text is taken from the literal-preserving view.
func CallSites(file string, src *scrub.Source) iter.Seq[Call] {
	return func(yield func(Call) bool) {
		for _, m := range callRe.FindAllStringSubmatchIndex(src.Masked, -1) {
			if qualified(src.Masked[:m[0]]) {
				continue
			}
			call := Call{
				Name: src.Masked[m[2]:m[3]],
				File: file,
				Args: SplitArgs(src.Text[m[4]:m[5]]),
			}
			if !yield(call) {
				return
			}
		}
	}
}

func qualified(before string) bool {
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	if before == "" {
		return false
	}
	last := before[len(before)-1]
	return last == '.' || last == ':'
}

// Documentable applies the casing heuristic: names that are entirely
// lowercase, entirely uppercase or start with a lowercase letter are treated
// as local helpers rather than API.
func Documentable(name string) bool {
	if name == "" {
		return false
	}
	if name == strings.ToLower(name) || name == strings.ToUpper(name) {
		return false
	}
	first := []rune(name)[0]
	return !unicode.IsLower(first)
}
