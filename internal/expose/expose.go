// Package expose recovers the signatures of names made global through
// AddGlobalAccess, from the records of the functions they forward to.
package expose

import (
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

// Resolver looks up a "namespace.name" path.
type Resolver interface {
	Resolve(path string) (*model.Function, bool)
}

// Resolve computes the effective signature of e.
//
// A direct mapping takes the target's parameters and return type verbatim.
// A wrapper that forwards "..." drops as many leading target parameters as
// it supplies fixed values for; a wrapper that does not forward "..." is
// opaque, so its own declared parameter names are used with type any. A
// target that cannot be resolved yields a variadic any signature.
func Resolve(r Resolver, e *model.Exposure) model.ResolvedExposure {
	out := model.ResolvedExposure{Exposure: *e}
	target, ok := r.Resolve(e.Target)
	if !ok {
		out.Parameters = []model.Parameter{}
		out.ReturnType = model.Any
		out.Variadic = true
		out.Unresolved = true
		return out
	}
	out.ReturnType = target.ReturnType

	if e.Kind != model.Wrapped || e.Wrapper == nil {
		out.Parameters = append([]model.Parameter{}, target.Parameters...)
		return out
	}

	w := e.Wrapper
	if w.ForwardsRest {
		drop := min(len(w.Fixed), len(target.Parameters))
		out.Parameters = append([]model.Parameter{}, target.Parameters[drop:]...)
		return out
	}
	out.Parameters, out.Variadic = ownParams(w.Params)
	return out
}

// All resolves every exposure in order.
func All(r Resolver, exposures []*model.Exposure) []model.ResolvedExposure {
	out := make([]model.ResolvedExposure, 0, len(exposures))
	for _, e := range exposures {
		out = append(out, Resolve(r, e))
	}
	return out
}

// ownParams turns a wrapper's declared parameter list into any-typed
// parameters. A trailing "..." marks the signature variadic.
func ownParams(list string) ([]model.Parameter, bool) {
	params := []model.Parameter{}
	variadic := false
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "...":
			variadic = true
			continue
		}
		params = append(params, model.Parameter{Name: name, Type: model.Any})
	}
	return params, variadic
}
