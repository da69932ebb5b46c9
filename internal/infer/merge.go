package infer

import (
	"fmt"
	"regexp"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

var (
	identRe        = regexp.MustCompile(`^\w+$`)
	keywordRe      = regexp.MustCompile(`^(?:true|false|nil|function)$`)
	stringLitRe    = regexp.MustCompile(`(?s)^["'](.+)["']$`)
	textParamDesc  = "The text string (supports concatenation and formatting)"
	varargArgsDesc = "Table with variable arguments"
)

// Hypothesis is the evolving parameter list of an inferred function. The zero
// value is the state before any call has been observed.
type Hypothesis struct {
	Params []model.Parameter
}

// Observe folds one call's arguments into h and returns the refined
// hypothesis. h is not modified. The parameter count never decreases.
func (h Hypothesis) Observe(args []string) Hypothesis {
	return Hypothesis{Params: Merge(h.Params, args, ClassifyAll(args))}
}

// Merge reconciles existing with one call's arguments and their types.
func Merge(existing []model.Parameter, args []string, types []model.Type) []model.Parameter {
	if collapsed, ok := collapseMessage(existing, args, types); ok {
		return collapsed
	}
	if collapsed, ok := collapseVarargTable(existing, args, types); ok {
		return collapsed
	}

	params := append([]model.Parameter(nil), existing...)
	for len(params) < len(args) {
		params = append(params, model.Parameter{
			Name: placeholder(len(params)),
			Type: model.Any,
		})
	}

	for i, arg := range args {
		p := &params[i]
		if types[i] != model.Any && p.Type == model.Any {
			p.Type = types[i]
		}
		nameArgument(p, i, arg)
	}
	return params
}

// collapseMessage models log/error style calls whose only meaningful argument
// is a built-up message string.
func collapseMessage(existing []model.Parameter, args []string, types []model.Type) ([]model.Parameter, bool) {
	if len(args) == 0 || types[0] != model.String {
		return nil, false
	}
	concat := HasConcat(args[0])
	format := IsStringFormatting(args[0])
	if !concat && !format {
		return nil, false
	}
	if !concat && len(args) > 1 {
		return nil, false
	}

	switch len(existing) {
	case 0:
		return []model.Parameter{{Name: "text", Type: model.String, Description: textParamDesc}}, true
	case 1:
		p := existing[0]
		if p.Name == placeholder(0) {
			p.Name = "text"
			p.Description = textParamDesc
		}
		p.Type = model.String
		return []model.Parameter{p}, true
	}
	return nil, false
}

func collapseVarargTable(existing []model.Parameter, args []string, types []model.Type) ([]model.Parameter, bool) {
	if len(args) != 1 || types[0] != model.Table || !IsVarargTable(args[0]) {
		return nil, false
	}

	switch {
	case len(existing) == 0 || (len(existing) == 1 && existing[0].Name == placeholder(0)):
		return []model.Parameter{{Name: "args", Type: model.Table, Description: varargArgsDesc}}, true
	case len(existing) == 1:
		p := existing[0]
		p.Type = model.Table
		if p.Description == "" {
			p.Description = varargArgsDesc
		}
		return []model.Parameter{p}, true
	}
	return nil, false
}

// nameArgument gives a placeholder-named slot a descriptive name derived from
// the argument. A slot is named at most once.
func nameArgument(p *model.Parameter, i int, arg string) {
	isPlaceholder := p.Name == placeholder(i)

	switch {
	case identRe.MatchString(arg) && !keywordRe.MatchString(arg) && !IsNumber(arg):
		if isPlaceholder {
			p.Name = arg
		}
	case IsNumber(arg):
		if isPlaceholder {
			p.Name = "value"
			p.Description = "Literal value: " + arg
		}
	case stringLitRe.MatchString(arg):
		if !isPlaceholder {
			return
		}
		content := stringLitRe.FindStringSubmatch(arg)[1]
		if identRe.MatchString(content) {
			p.Name = content
		} else {
			p.Name = "text"
			p.Description = "Example: " + content
		}
	case arg == "true" || arg == "false":
		if isPlaceholder {
			p.Name = "flag"
		}
		if isPlaceholder || p.Type == model.Any {
			p.Type = model.Boolean
			p.Description = "Boolean flag, example: " + arg
		}
	case tableRe.MatchString(arg):
		if !isPlaceholder {
			return
		}
		if IsVarargTable(arg) {
			p.Name = "args"
			p.Description = varargArgsDesc
		} else {
			p.Name = "options"
			p.Description = "Table of options"
		}
	}
}

func placeholder(i int) string {
	return fmt.Sprintf("arg%d", i+1)
}
