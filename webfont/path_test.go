package webfont_test

import (
	"testing"

	"wfr/webfont"
)

func TestConcatPath(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"no parts", nil, ""},
		{"single", []string{"/var/www/"}, "/var/www"},
		{"absolute root kept", []string{"/site/", "/fonts/", "Open Sans"}, "/site/fonts/Open Sans"},
		{"empty parts skipped", []string{"", "a", "", "b/"}, "a/b"},
		{"backslashes trimmed", []string{`C:\site\`, `\fonts\`, "x.woff"}, `C:\site/fonts/x.woff`},
		{"url", []string{"http://example.com/", "fonts", "/a.woff2"}, "http://example.com/fonts/a.woff2"},
		{"leading slash of first lost when empty", []string{"/", "fonts"}, "fonts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := webfont.ConcatPath(tt.parts...); got != tt.want {
				t.Errorf("ConcatPath(%q) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestConcatPath_Associative(t *testing.T) {
	sets := [][3]string{
		{"a", "b", "c"},
		{"/root/", "/fonts/", "/file.woff"},
		{"http://host", "dir/sub", "f.ttf"},
	}
	for _, s := range sets {
		left := webfont.ConcatPath(webfont.ConcatPath(s[0], s[1]), s[2])
		right := webfont.ConcatPath(s[0], webfont.ConcatPath(s[1], s[2]))
		if left != right {
			t.Errorf("%q: (a+b)+c = %q, a+(b+c) = %q", s, left, right)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		`\example\dir\`:         "example/dir",
		"/a/b/":                 "a/b",
		`subdir\font_thin.*`:    "subdir/font_thin.*",
		"plain":                 "plain",
		"":                      "",
		`\\server\share\font\\`: "server/share/font",
	}
	for in, want := range tests {
		if got := webfont.NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
