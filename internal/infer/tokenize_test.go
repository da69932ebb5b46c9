package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "x", []string{"x"}},
		{"trims", " a ,  b ", []string{"a", "b"}},
		{"nested call", "f(a, b), c", []string{"f(a, b)", "c"}},
		{"table", "{ a = 1, b = 2 }, x", []string{"{ a = 1, b = 2 }", "x"}},
		{"index", "t[i, j], y", []string{"t[i, j]", "y"}},
		{"string comma", `"a, b", 'c,d'`, []string{`"a, b"`, `'c,d'`}},
		{"escaped quote", `"say \"hi, there\"", 2`, []string{`"say \"hi, there\""`, "2"}},
		{"other quote inside", `"it's, fine", x`, []string{`"it's, fine"`, "x"}},
		{"trailing comma", "a, b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitArgs(tt.in))
		})
	}
}
