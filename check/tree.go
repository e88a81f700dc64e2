package check

import (
	"fmt"
	"strings"
)

type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Tree renders results as indented listing grouped by family. Problems are
// marked with "!".
func Tree(results []*Result) string {
	var (
		tw     treeWriter
		family string
	)
	for i, r := range results {
		if i == 0 || r.Family != family {
			family = r.Family
			tw.line(0, "%s", family)
		}
		if r.OK() {
			tw.line(1, "%s: ok", r.Style)
		} else {
			tw.line(1, "%s: %d problem(s)", r.Style, len(r.Problems))
		}
		for _, f := range r.Files {
			tw.line(2, "%s", f)
		}
		for _, p := range r.Problems {
			tw.line(2, "! %s", p)
		}
	}
	return tw.w.String()
}
