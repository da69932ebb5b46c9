// Package scrub removes comments and string-literal contents from Lua source
// so that extraction patterns cannot match inside documentation or data.
package scrub

import (
	"regexp"
	"strings"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)--\[\[.*?\]\]`)
	doubleQuotedRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	singleQuotedRe = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
)

// Source holds the views of one file that the extraction passes need.
type Source struct {
	// Raw is the unmodified file content.
	Raw string
	// Text has comments removed but string literals intact.
	Text string
	// Clean is Text with every string literal replaced by an empty literal of
	// the same quote style.
	Clean string
	// Masked is Text with string-literal contents replaced by spaces. It is
	// byte-aligned with Text, so an offset found in Masked slices Text.
	Masked string
}

// Prepare builds all views of raw.
func Prepare(raw string) *Source {
	text := StripComments(raw)
	return &Source{
		Raw:    raw,
		Text:   text,
		Clean:  replaceLiterals(text, emptyLiteral),
		Masked: replaceLiterals(text, maskLiteral),
	}
}

// Clean strips comments and empties string literals.
func Clean(raw string) string {
	return replaceLiterals(StripComments(raw), emptyLiteral)
}

// StripComments removes block comments entirely and, per line, everything
// from the first line-comment marker onward.
func StripComments(raw string) string {
	content := blockCommentRe.ReplaceAllString(raw, "")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func replaceLiterals(text string, repl func(string) string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = doubleQuotedRe.ReplaceAllStringFunc(line, repl)
		lines[i] = singleQuotedRe.ReplaceAllStringFunc(line, repl)
	}
	return strings.Join(lines, "\n")
}

func emptyLiteral(lit string) string {
	q := lit[:1]
	return q + q
}

func maskLiteral(lit string) string {
	q := lit[:1]
	return q + strings.Repeat(" ", len(lit)-2) + q
}
