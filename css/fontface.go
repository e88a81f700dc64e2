// Package css writes and reads back @font-face rules.
package css

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Source is a single entry of @font-face src list. Either Local or URL is set.
type Source struct {
	Local  string // name of locally installed font
	URL    string
	Format string // format() hint, optional
}

func (s Source) String() string {
	if s.Local != "" {
		return "local(" + FormatString(s.Local) + ")"
	}
	if s.Format == "" {
		return "url(" + FormatString(s.URL) + ")"
	}
	return "url(" + FormatString(s.URL) + ") format(" + FormatString(s.Format) + ")"
}

// FontFace is an @font-face rule as it is emitted by the generator.
type FontFace struct {
	Family  string
	Weight  int
	Italic  bool
	Display string // font-display, omitted when empty
	// Fallback is written as a separate src declaration before the main one,
	// old IE only understands a bare url there.
	Fallback string
	Sources  []Source
}

// WriteTo writes the rule to w. The output has no trailing newline.
func (ff *FontFace) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString("@font-face {\n")
	b.WriteString("\tfont-family: " + FormatString(ff.Family) + ";\n")
	b.WriteString("\tfont-weight: " + strconv.Itoa(ff.Weight) + ";\n")
	if ff.Italic {
		b.WriteString("\tfont-style: italic;\n")
	} else {
		b.WriteString("\tfont-style: normal;\n")
	}
	if ff.Display != "" {
		b.WriteString("\tfont-display: " + ff.Display + ";\n")
	}
	if ff.Fallback != "" {
		b.WriteString("\tsrc: " + Source{URL: ff.Fallback}.String() + ";\n")
	}
	b.WriteString("\tsrc: ")
	for i, s := range ff.Sources {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteString(";\n}")

	n, err := io.WriteString(w, b.String())
	if err != nil {
		return int64(n), fmt.Errorf("unable to write @font-face for '%s': %w", ff.Family, err)
	}
	return int64(n), nil
}

// String returns CSS text of the rule.
func (ff *FontFace) String() string {
	var sb strings.Builder
	ff.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
