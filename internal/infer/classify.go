package infer

import (
	"regexp"
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

var (
	varargTableRe = regexp.MustCompile(`(?s)^\{.*\.\.\..*\}$`)
	nestedCallRe  = regexp.MustCompile(`\w+\s*\([^)]*\)`)
	formatCallRe  = regexp.MustCompile(`(?i)string\.format\s*\(`)
	tostringRe    = regexp.MustCompile(`tostring\s*\(`)
	quotedRe      = regexp.MustCompile(`(?s)^(?:".*"|'.*')$`)
	numberRe      = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?$`)
	tableRe       = regexp.MustCompile(`(?s)^\{.*\}$`)
	functionRe    = regexp.MustCompile(`^function\b`)
)

// Classify maps one argument or default-value expression onto a type using
// its surface syntax. Concatenation and nested calls are checked before the
// literal forms because a concatenation can start with a literal. A function
// literal with a parameter list therefore classifies as a nested call.
func Classify(expr string) model.Type {
	expr = strings.TrimSpace(expr)
	switch {
	case IsVarargTable(expr):
		return model.Table
	case nestedCallRe.MatchString(expr):
		if IsStringFormatting(expr) || tostringRe.MatchString(expr) {
			return model.String
		}
		return model.Any
	case HasConcat(expr):
		return model.String
	case expr == "true" || expr == "false":
		return model.Boolean
	case quotedRe.MatchString(expr):
		return model.String
	case numberRe.MatchString(expr):
		return model.Number
	case tableRe.MatchString(expr):
		return model.Table
	case functionRe.MatchString(expr):
		return model.Func
	}
	return model.Any
}

// ClassifyAll classifies each argument.
func ClassifyAll(args []string) []model.Type {
	types := make([]model.Type, len(args))
	for i, a := range args {
		types[i] = Classify(a)
	}
	return types
}

// IsVarargTable reports whether expr is a table constructor containing "...".
func IsVarargTable(expr string) bool {
	return varargTableRe.MatchString(expr)
}

// IsStringFormatting reports whether expr calls string.format.
func IsStringFormatting(expr string) bool {
	return formatCallRe.MatchString(expr)
}

// HasConcat reports whether expr contains the ".." operator. The vararg
// marker "..." is not a concatenation.
func HasConcat(expr string) bool {
	for i := 0; i+1 < len(expr); i++ {
		if expr[i] != '.' || expr[i+1] != '.' {
			continue
		}
		run := i
		for run < len(expr) && expr[run] == '.' {
			run++
		}
		if run-i == 2 {
			return true
		}
		i = run
	}
	return false
}

// IsNumber reports whether expr is an unsigned integer or decimal literal.
func IsNumber(expr string) bool {
	return numberRe.MatchString(expr)
}
