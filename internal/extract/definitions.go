// Package extract recognizes function-definition idioms in scrubbed Lua
// source. Each pass is independent and yields candidate records lazily; a
// definition may legitimately be yielded by more than one pass.
package extract

import (
	"iter"
	"regexp"
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/infer"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

var (
	globalFuncRe     = regexp.MustCompile(`(?s)function\s+(\w+)\s*\((.*?)\)(.*?)\bend\b`)
	namespacedFuncRe = regexp.MustCompile(`(?s)function\s+(\w+)\.(\w+)\s*\((.*?)\)(.*?)\bend\b`)
	tableFuncRe      = regexp.MustCompile(`(?s)(\w+)\.(\w+)\s*=\s*function\s*\((.*?)\)(.*?)\bend\b`)
	localFuncRe      = regexp.MustCompile(`(?s)local\s+function\s+(\w+)\s*\((.*?)\)(.*?)\bend\b`)

	returnNumberRe = regexp.MustCompile(`return\s+[0-9]`)
	returnStringRe = regexp.MustCompile(`return\s+["']`)
	returnTableRe  = regexp.MustCompile(`return\s+\{`)
)

// Globals yields "function Name(...) ... end" definitions under the global
// namespace.
func Globals(file string, src *scrub.Source) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, m := range globalFuncRe.FindAllStringSubmatch(src.Clean, -1) {
			fn := definition(model.NamespaceGlobal, m[1], m[2], m[3], file, model.KindGlobal)
			if !yield(fn) {
				return
			}
		}
	}
}

// Namespaced yields "function ns.Name(...) ... end" definitions.
func Namespaced(file string, src *scrub.Source) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, m := range namespacedFuncRe.FindAllStringSubmatch(src.Clean, -1) {
			fn := definition(m[1], m[2], m[3], m[4], file, model.KindNamespaced)
			if !yield(fn) {
				return
			}
		}
	}
}

// TableAssigned yields "ns.Name = function(...) ... end" definitions.
func TableAssigned(file string, src *scrub.Source) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, m := range tableFuncRe.FindAllStringSubmatch(src.Clean, -1) {
			fn := definition(m[1], m[2], m[3], m[4], file, model.KindTable)
			if !yield(fn) {
				return
			}
		}
	}
}

// Locals yields "local function Name(...) ... end" definitions under the
// local namespace.
func Locals(file string, src *scrub.Source) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, m := range localFuncRe.FindAllStringSubmatch(src.Clean, -1) {
			fn := definition(model.NamespaceLocal, m[1], m[2], m[3], file, model.KindLocal)
			if !yield(fn) {
				return
			}
		}
	}
}

func definition(namespace, name, params, body, file string, kind model.Kind) *model.Function {
	return &model.Function{
		Name:       name,
		Namespace:  namespace,
		Kind:       kind,
		Parameters: ParseParams(params),
		ReturnType: InferReturn(body),
		Source:     file,
		Body:       body,
	}
}

// ParseParams parses a formal parameter list. A "[" marks the parameter
// optional; a "name = default" form is typed from the default expression.
func ParseParams(s string) []model.Parameter {
	params := []model.Parameter{}
	if strings.TrimSpace(s) == "" {
		return params
	}
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		name, def, hasDefault := strings.Cut(raw, "=")
		name = strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(name))
		if name == "" {
			continue
		}
		typ := model.Any
		if hasDefault {
			typ = infer.Classify(strings.NewReplacer("[", "", "]", "").Replace(def))
		}
		params = append(params, model.Parameter{
			Name:     name,
			Type:     typ,
			Optional: strings.Contains(raw, "["),
		})
	}
	return params
}

// InferReturn inspects a function body for literal return statements.
func InferReturn(body string) model.Type {
	switch {
	case strings.Contains(body, "return true") || strings.Contains(body, "return false"):
		return model.Boolean
	case returnNumberRe.MatchString(body):
		return model.Number
	case returnStringRe.MatchString(body):
		return model.String
	case returnTableRe.MatchString(body):
		return model.Table
	}
	return model.Any
}
