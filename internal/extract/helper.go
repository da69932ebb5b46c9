package extract

import (
	"iter"
	"regexp"
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
)

var (
	helperFuncRe  = regexp.MustCompile(`(?s)function\s+Helper\.(\w+)\s*\((.*?)\)(.*?)\bend\b`)
	helperTableRe = regexp.MustCompile(`(?s)Helper\.(\w+)\s*=\s*function\s*\((.*?)\)(.*?)\bend\b`)

	guardTypes = []model.Type{model.String, model.Number, model.Boolean, model.Table, model.Func}
)

// Helpers yields Helper namespace functions in both the free-function and
// table-assignment forms. Parameter types come from type(...) == "..."
// guards in the body; the patterns run on the masked view and the body is
// read from the literal-preserving view so the guard strings survive.
func Helpers(file string, src *scrub.Source) iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, re := range []*regexp.Regexp{helperFuncRe, helperTableRe} {
			for _, m := range re.FindAllStringSubmatchIndex(src.Masked, -1) {
				name := src.Masked[m[2]:m[3]]
				body := src.Text[m[6]:m[7]]
				fn := &model.Function{
					Name:       name,
					Namespace:  model.NamespaceHelper,
					Kind:       model.KindHelper,
					Parameters: helperParams(src.Masked[m[4]:m[5]], body),
					ReturnType: InferReturn(body),
					Source:     file,
					Body:       body,
				}
				if !yield(fn) {
					return
				}
			}
		}
	}
}

func helperParams(list, body string) []model.Parameter {
	params := []model.Parameter{}
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		params = append(params, model.Parameter{Name: name, Type: GuardType(name, body)})
	}
	return params
}

// GuardType returns the type that body checks param against with
// type(param) == "<type>", or any when there is no such guard. When several
// guards exist the first of string, number, boolean, table, function wins.
func GuardType(param, body string) model.Type {
	re := regexp.MustCompile(`type\s*\(\s*` + regexp.QuoteMeta(param) +
		`\s*\)\s*==\s*["'](string|number|boolean|table|function)["']`)
	found := make(map[model.Type]bool)
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		found[model.Type(m[1])] = true
	}
	for _, t := range guardTypes {
		if found[t] {
			return t
		}
	}
	return model.Any
}
