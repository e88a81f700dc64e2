package css

import "strings"

// FormatString formats text as a single-quoted CSS string. Usable for
// property values as well as inside url() and local():
//
//	"font-family: " + css.FormatString(name)
//	"url(" + css.FormatString(href) + ")"
func FormatString(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('\'')
	// bytes, not runes: names from the file system need not be valid UTF-8
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
