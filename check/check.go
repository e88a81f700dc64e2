// Package check verifies fonts catalog against the files on disk and the CSS
// generated from it.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wfr/css"
	"wfr/webfont"
)

// headerSize is enough for every matcher filetype has.
const headerSize = 262

// Result describes a single family style.
type Result struct {
	Family string
	Style  string
	// Files are style files relative to the style directory, as resolved
	// by the catalog.
	Files    []string
	Problems []string
}

// OK reports whether style has no problems.
func (r *Result) OK() bool {
	return len(r.Problems) == 0
}

func (r *Result) addProblem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Checker walks every style of the catalog.
type Checker struct {
	catalog *webfont.Catalog
	parser  *css.Parser
	log     *zap.Logger
}

// New creates checker for catalog.
func New(catalog *webfont.Catalog, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		catalog: catalog,
		parser:  css.NewParser(log),
		log:     log.Named("check"),
	}
}

// Run checks all styles of all families. Returned error combines problems of
// every failed style, results are returned regardless.
func (c *Checker) Run(ctx context.Context) ([]*Result, error) {
	if c.catalog.FontsPath() == "" {
		c.log.Warn("Site root is not set, font files cannot be verified")
	}

	var (
		results []*Result
		err     error
	)
	for _, family := range c.catalog.Families() {
		for _, style := range family.Styles() {
			if ctx.Err() != nil {
				return results, multierr.Append(err, ctx.Err())
			}
			r := c.checkStyle(ctx, family, style)
			results = append(results, r)
			if !r.OK() {
				err = multierr.Append(err, fmt.Errorf("%s %s: %s", r.Family, r.Style, strings.Join(r.Problems, "; ")))
			}
		}
	}
	return results, err
}

func (c *Checker) checkStyle(ctx context.Context, family *webfont.Family, style *webfont.Style) *Result {
	r := &Result{Family: family.Name, Style: style.ID()}
	dir := c.catalog.StyleDirectory(family, style)

	files, err := style.FilesInDirectory(ctx, dir)
	if err != nil {
		r.addProblem("%v", err)
	}
	r.Files = files
	if len(files) == 0 {
		r.addProblem("no font files")
		return r
	}

	formats := make(map[string]bool)
	for _, f := range files {
		ext := strings.TrimPrefix(path.Ext(f), ".")
		if !webfont.IsSupportedExtension(ext) {
			r.addProblem("file '%s' has unsupported extension", f)
			continue
		}
		formats[ext] = true
		if dir != "" {
			if err := sniff(filepath.Join(dir, filepath.FromSlash(f)), ext); err != nil {
				r.addProblem("%v", err)
			}
		}
	}
	c.checkCSS(ctx, r, style, len(formats))

	c.log.Debug("Style checked", zap.String("family", r.Family), zap.String("style", r.Style),
		zap.Strings("files", r.Files), zap.Int("problems", len(r.Problems)))
	return r
}

// checkCSS generates stylesheet for the style alone and reads it back.
func (c *Checker) checkCSS(ctx context.Context, r *Result, style *webfont.Style, formats int) {
	text, err := c.catalog.MakeCSS(ctx, []webfont.FamilyRequest{{Name: r.Family, Styles: []string{r.Style}}}, "")
	if err != nil {
		r.addProblem("unable to generate CSS: %v", err)
		return
	}
	faces := c.parser.Parse([]byte(text), r.Family+":"+r.Style)
	if len(faces) != 1 {
		r.addProblem("generated CSS has %d @font-face rules, expected 1", len(faces))
		return
	}

	ff := faces[0]
	wantStyle := "normal"
	if style.Italic {
		wantStyle = "italic"
	}
	switch {
	case ff.Family != r.Family:
		r.addProblem("generated CSS has font-family '%s'", ff.Family)
	case ff.Weight != strconv.Itoa(style.Weight):
		r.addProblem("generated CSS has font-weight '%s'", ff.Weight)
	case ff.Style != wantStyle:
		r.addProblem("generated CSS has font-style '%s'", ff.Style)
	}
	urls := len(ff.URLs)
	if len(ff.Src) > 1 {
		// separate eot fallback declaration
		urls--
	}
	if urls != formats {
		r.addProblem("generated CSS references %d files, expected %d", urls, formats)
	}
}

// sniff makes sure file content matches its extension for formats filetype
// knows about.
func sniff(name, ext string) error {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file '%s' does not exist", name)
		}
		return err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to read '%s': %w", name, err)
	}
	head = head[:n]

	switch ext {
	case "woff", "woff2", "ttf", "otf":
		if !filetype.Is(head, ext) {
			return fmt.Errorf("content of '%s' is not %s", name, ext)
		}
	}
	return nil
}
