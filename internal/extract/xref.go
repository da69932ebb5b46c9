package extract

import (
	"iter"
	"regexp"
	"strings"
)

var (
	localNameRe   = regexp.MustCompile(`local\s+function\s+(\w+)`)
	globalNameRe  = regexp.MustCompile(`function\s+(\w+)\s*\(`)
	requireLineRe = regexp.MustCompile(`^local\s+(\w+)\s*=\s*require`)
	prefixedRe    = regexp.MustCompile(`(\w+)\.(\w+)\s*\(`)
)

// Prefixed is one qualified call site "prefix.name(".
type Prefixed struct {
	Prefix string
	Name   string
}

// DefinedNames returns the local and global function names defined in clean.
// Lines that import a module with require are skipped.
func DefinedNames(clean string) (locals, globals []string) {
	for _, line := range strings.Split(clean, "\n") {
		if requireLineRe.MatchString(line) {
			continue
		}
		for _, m := range localNameRe.FindAllStringSubmatch(line, -1) {
			locals = append(locals, m[1])
		}
		for _, m := range globalNameRe.FindAllStringSubmatch(line, -1) {
			globals = append(globals, m[1])
		}
	}
	return locals, globals
}

// PrefixedCalls yields every "prefix.name(" occurrence in clean.
func PrefixedCalls(clean string) iter.Seq[Prefixed] {
	return func(yield func(Prefixed) bool) {
		for _, m := range prefixedRe.FindAllStringSubmatch(clean, -1) {
			if !yield(Prefixed{Prefix: m[1], Name: m[2]}) {
				return
			}
		}
	}
}
