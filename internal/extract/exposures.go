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
	directExposureRe  = regexp.MustCompile(`AddGlobalAccess\s*\(\s*["'](\w+)["']\s*,\s*([\w.]+)\s*\)`)
	wrapperExposureRe = regexp.MustCompile(`(?s)AddGlobalAccess\s*\(\s*["'](\w+)["']\s*,\s*function\s*\((.*?)\)(.*?)return\s+([\w.]+)\s*\((.*?)\)(.*?)\bend\s*\)`)
)

// Exposures yields the "expose globally" mappings in src: direct
// AddGlobalAccess("Name", ns.target) calls first, then wrapper forms whose
// inline function forwards to a target.
func Exposures(file string, src *scrub.Source) iter.Seq[*model.Exposure] {
	return func(yield func(*model.Exposure) bool) {
		for _, m := range directExposureRe.FindAllStringSubmatch(src.Text, -1) {
			e := &model.Exposure{
				Name:        m[1],
				Kind:        model.Direct,
				Target:      m[2],
				File:        file,
				Description: "Global access to " + m[2],
			}
			if !yield(e) {
				return
			}
		}
		for _, m := range wrapperExposureRe.FindAllStringSubmatch(src.Text, -1) {
			e := &model.Exposure{
				Name:        m[1],
				Kind:        model.Wrapped,
				Target:      m[4],
				File:        file,
				Wrapper:     ClassifyWrapper(m[2], m[5]),
				Description: "Wrapper for " + m[4] + " with parameter transformation",
			}
			if !yield(e) {
				return
			}
		}
	}
}

// ClassifyWrapper inspects the argument list a wrapper forwards to its
// target. A "..." after zero or more fixed leading expressions makes it a
// prepend or pass-through wrapper; without "..." the target is always called
// with the same arguments.
func ClassifyWrapper(params, targetArgs string) *model.Wrapper {
	w := &model.Wrapper{
		Params:     strings.TrimSpace(params),
		TargetArgs: strings.TrimSpace(targetArgs),
		Fixed:      []string{},
	}
	for _, arg := range infer.SplitArgs(targetArgs) {
		if arg == "..." {
			w.ForwardsRest = true
			break
		}
		if before, _, found := strings.Cut(arg, "..."); found {
			if before = strings.TrimSpace(before); before != "" {
				w.Fixed = append(w.Fixed, before)
			}
			w.ForwardsRest = true
			break
		}
		w.Fixed = append(w.Fixed, arg)
	}

	switch {
	case w.ForwardsRest && len(w.Fixed) > 0:
		w.Transform = model.Prepend
	case w.ForwardsRest:
		w.Transform = model.PassThrough
	default:
		w.Transform = model.FixedArgs
	}
	return w
}
