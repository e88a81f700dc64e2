package css_test

import (
	"strings"
	"testing"

	"wfr/css"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", `''`},
		{"Open Sans", `'Open Sans'`},
		{"It's", `'It\'s'`},
		{`back\slash`, `'back\\slash'`},
		{`\'`, `'\\\''`},
		{"two\nlines", "'two\\\nlines'"},
		{"/fonts/a.woff2?#iefix", `'/fonts/a.woff2?#iefix'`},
		{"/fonts/f\xff.woff2", "'/fonts/f\xff.woff2'"},
		{"Noto Sans 日本語", "'Noto Sans 日本語'"},
	}
	for _, tt := range tests {
		if got := css.FormatString(tt.in); got != tt.want {
			t.Errorf("FormatString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatString_NoUnescapedQuotes(t *testing.T) {
	for _, in := range []string{"'", "''", `\'`, `a'b\'c\\'d`, "\n'\n", `\\\`} {
		got := css.FormatString(in)
		if !strings.HasPrefix(got, "'") || !strings.HasSuffix(got, "'") || len(got) < 2 {
			t.Fatalf("FormatString(%q) = %q is not quoted", in, got)
		}
		body := got[1 : len(got)-1]
		escaped := false
		for i := 0; i < len(body); i++ {
			switch {
			case escaped:
				escaped = false
			case body[i] == '\\':
				escaped = true
			case body[i] == '\'':
				t.Errorf("FormatString(%q) = %q has unescaped quote at %d", in, got, i+1)
			}
		}
		if escaped {
			t.Errorf("FormatString(%q) = %q ends with dangling escape", in, got)
		}
	}
}
