package webfont

import "strings"

// ConcatPath joins path parts with a single slash. Empty parts are skipped.
// The first kept part loses only its trailing slashes (so absolute paths and
// URLs keep their prefix), the rest are trimmed on both ends. Both kinds of
// slashes are trimmed.
func ConcatPath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(strings.TrimRight(part, `/\`))
			continue
		}
		b.WriteByte('/')
		b.WriteString(strings.Trim(part, `/\`))
	}
	return b.String()
}

// NormalizePath converts backslashes to forward slashes and removes slashes
// at both ends. This is the form in which all configured paths are stored.
func NormalizePath(p string) string {
	return strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
}
