package infer

import "strings"

// SplitArgs splits the text between a call's parentheses into its top-level
// argument expressions. Commas nested in parentheses, brackets, braces or
// string literals do not separate arguments. A quote preceded by a backslash
// does not open or close a literal.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args    []string
		start   int
		paren   int
		bracket int
		brace   int
		quote   byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if (c == '"' || c == '\'') && (i == 0 || s[i-1] != '\\') {
			switch {
			case quote == 0:
				quote = c
			case quote == c:
				quote = 0
			}
			continue
		}
		if quote != 0 {
			continue
		}

		switch c {
		case '(':
			paren++
		case ')':
			paren--
		case '[':
			bracket++
		case ']':
			bracket--
		case '{':
			brace++
		case '}':
			brace--
		case ',':
			if paren == 0 && bracket == 0 && brace == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if last := strings.TrimSpace(s[start:]); last != "" {
		args = append(args, last)
	}
	return args
}
