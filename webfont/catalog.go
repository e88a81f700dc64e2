// Package webfont generates CSS @font-face rules for configured font
// families.
//
// A Catalog is built once from settings and is read-only afterwards, so a
// single instance may serve any number of concurrent requests.
package webfont

import (
	"context"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"wfr/css"
)

// DefaultFontsDirectory is the name of the fonts directory under the site
// root, used both on disk and in URLs.
const DefaultFontsDirectory = "fonts"

// DefaultGlobTimeout limits single glob resolution during CSS generation.
const DefaultGlobTimeout = 2 * time.Second

var displayValues = map[string]bool{
	"auto":     true,
	"block":    true,
	"swap":     true,
	"fallback": true,
	"optional": true,
}

// Catalog is the complete collection of families available for CSS
// generation.
type Catalog struct {
	families       map[string]*Family
	fontsURL       string
	fontsPath      string
	fontsDirectory string
	globTimeout    time.Duration
	log            *zap.Logger
}

// Options controls catalog construction.
type Options struct {
	log            *zap.Logger
	fontsPath      string
	fontsDirectory string
	globTimeout    time.Duration
}

// Option is a functional option for New and FromSettings.
type Option func(*Options)

// WithLogger sets logger for reporting problems during CSS generation.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.log = log
	}
}

// WithSiteRoot sets directory on disk where fonts directory is located.
// Without it only explicit file lists are used, globs are never resolved.
func WithSiteRoot(dir string) Option {
	return func(o *Options) {
		o.fontsPath = dir
	}
}

// WithFontsDirectory overrides name of fonts directory (may contain slashes).
// Empty name keeps the default.
func WithFontsDirectory(name string) Option {
	return func(o *Options) {
		if name = NormalizePath(name); name != "" {
			o.fontsDirectory = name
		}
	}
}

// WithGlobTimeout limits how long a single glob may take. Non-positive
// values keep the default.
func WithGlobTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.globTimeout = d
		}
	}
}

// New creates catalog from ready families. rootURL is the site root URL with
// or without scheme and host.
func New(families []*Family, rootURL string, options ...Option) (*Catalog, error) {
	opts := &Options{fontsDirectory: DefaultFontsDirectory, globTimeout: DefaultGlobTimeout}
	for _, setOpt := range options {
		setOpt(opts)
	}
	if opts.log == nil {
		opts.log = zap.NewNop()
	}

	c := &Catalog{
		families:       make(map[string]*Family, len(families)),
		fontsURL:       strings.TrimRight(rootURL, "/") + "/" + opts.fontsDirectory,
		fontsDirectory: opts.fontsDirectory,
		globTimeout:    opts.globTimeout,
		log:            opts.log.Named("catalog"),
	}
	if opts.fontsPath != "" {
		c.fontsPath = ConcatPath(opts.fontsPath, opts.fontsDirectory)
	}
	for i, f := range families {
		if f == nil {
			return nil, fmt.Errorf("families[%d] expected to be a Family instance, nil given: %w", i, ErrInvalidArgument)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("families[%d] has empty name: %w", i, ErrInvalidArgument)
		}
		c.families[f.Name] = f
	}
	return c, nil
}

// FromSettings creates catalog from font settings: mapping of family name to
// family settings. Returned errors are *SettingsError.
func FromSettings(settings any, rootURL string, options ...Option) (*Catalog, error) {
	var families []*Family
	if settings != nil {
		m, ok := asMapping(settings)
		if !ok {
			return nil, settingsErrorf("fonts settings must be a mapping, %s given", typeName(settings))
		}
		for name, fs := range m {
			if name == "" {
				return nil, settingsErrorf("font family name must not be empty")
			}
			f, err := FamilyFromSettings(name, fs)
			if err != nil {
				return nil, err
			}
			families = append(families, f)
		}
	}
	c, err := New(families, rootURL, options...)
	if err != nil {
		return nil, &SettingsError{Msg: err.Error()}
	}
	return c, nil
}

// FontsDirectoryURL returns URL of the fonts directory without trailing slash.
func (c *Catalog) FontsDirectoryURL() string {
	return c.fontsURL
}

// FontsDirectory returns the fonts directory name relative to the site root.
func (c *Catalog) FontsDirectory() string {
	return c.fontsDirectory
}

// FontsPath returns fonts directory on disk, empty if not configured.
func (c *Catalog) FontsPath() string {
	return c.fontsPath
}

// Family finds family by name.
func (c *Catalog) Family(name string) (*Family, bool) {
	f, ok := c.families[name]
	return f, ok
}

// Families returns all families in natural order of their names.
func (c *Catalog) Families() []*Family {
	names := slices.Collect(maps.Keys(c.families))
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	families := make([]*Family, 0, len(names))
	for _, name := range names {
		families = append(families, c.families[name])
	}
	return families
}

// MakeCSS generates @font-face rules for requested families in the requested
// order. Unknown families and styles, as well as styles without files, are
// skipped. Every rule is followed by a newline. display is rendered as
// font-display when it is a known keyword and ignored otherwise.
func (c *Catalog) MakeCSS(ctx context.Context, requested []FamilyRequest, display string) (string, error) {
	display = strings.ToLower(display)
	if display != "" && !displayValues[display] {
		c.log.Debug("Ignoring unknown font-display value", zap.String("display", display))
		display = ""
	}

	var b strings.Builder
	for _, fr := range requested {
		styles := fr.Styles
		if len(styles) == 0 {
			styles = []string{DefaultStyleID}
		}
		done := make(map[string]bool, len(styles))
		for _, id := range styles {
			if done[id] {
				continue
			}
			done[id] = true

			if _, _, err := parseStyleID(styleIDRequest, id); err != nil {
				return "", fmt.Errorf("font style of family '%s': %w: %w", fr.Name, err, ErrInvalidArgument)
			}
			ff, outcome := c.resolve(ctx, fr.Name, id)
			if outcome != outcomeFound {
				c.log.Debug("Nothing to generate", zap.String("family", fr.Name), zap.String("style", id), zap.Stringer("reason", outcome))
				continue
			}
			ff.Display = display
			if _, err := ff.WriteTo(&b); err != nil {
				return "", err
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

type outcome int

const (
	outcomeFound outcome = iota
	outcomeFamilyUnknown
	outcomeStyleUnknown
	outcomeNoFiles
)

func (o outcome) String() string {
	switch o {
	case outcomeFound:
		return "found"
	case outcomeFamilyUnknown:
		return "unknown family"
	case outcomeStyleUnknown:
		return "unknown style"
	case outcomeNoFiles:
		return "no files"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// resolve builds @font-face rule for the family style.
func (c *Catalog) resolve(ctx context.Context, familyName, styleID string) (*css.FontFace, outcome) {
	family, ok := c.Family(familyName)
	if !ok {
		return nil, outcomeFamilyUnknown
	}
	style, ok := family.Style(styleID)
	if !ok {
		return nil, outcomeStyleUnknown
	}
	files := c.FontFilesURLs(ctx, family, style)
	if len(files) == 0 {
		return nil, outcomeNoFiles
	}

	ff := &css.FontFace{
		Family: family.Name,
		Weight: style.Weight,
		Italic: style.Italic,
	}
	if eot, ok := files["eot"]; ok {
		ff.Fallback = eot
	}
	if !forbidLocal(family, style) {
		for _, name := range LocalFontNames(family, style) {
			ff.Sources = append(ff.Sources, css.Source{Local: name})
		}
	}
	for _, f := range fileFormats {
		if u, ok := files[f.ext]; ok {
			ff.Sources = append(ff.Sources, css.Source{URL: u + f.suffix, Format: f.format})
		}
	}
	return ff, outcomeFound
}

// fileFormats lists supported extensions in the order of src entries.
var fileFormats = []struct {
	ext, suffix, format string
}{
	{"eot", "?#iefix", "embedded-opentype"},
	{"woff2", "", "woff2"},
	{"woff", "", "woff"},
	{"ttf", "", "truetype"},
	{"otf", "", "opentype"},
	{"svg", "#webfontregular", "svg"},
}

// IsSupportedExtension reports whether files with extension ext (without
// dot) end up in generated CSS.
func IsSupportedExtension(ext string) bool {
	for _, f := range fileFormats {
		if f.ext == ext {
			return true
		}
	}
	return false
}

// forbidLocal resolves effective local source suppression: style setting,
// then family setting, then false.
func forbidLocal(family *Family, style *Style) bool {
	switch {
	case style.ForbidLocal != nil:
		return *style.ForbidLocal
	case family.ForbidLocal != nil:
		return *family.ForbidLocal
	}
	return false
}

// LocalFontNames returns names under which the style may be installed
// locally, e.g. "Open Sans Bold" and "OpenSans-Bold".
func LocalFontNames(family *Family, style *Style) []string {
	var words []string
	for _, w := range []string{family.Name, style.DisplayName()} {
		if w != "" {
			words = append(words, w)
		}
	}
	compact := make([]string, len(words))
	for i, w := range words {
		compact[i] = strings.ReplaceAll(w, " ", "")
	}

	full, postscript := strings.Join(words, " "), strings.Join(compact, "-")
	if full == postscript {
		return []string{full}
	}
	return []string{full, postscript}
}

// StyleDirectory returns directory on disk with style files, empty when
// catalog has no site root.
func (c *Catalog) StyleDirectory(family *Family, style *Style) string {
	if c.fontsPath == "" {
		return ""
	}
	return ConcatPath(c.fontsPath, family.Directory, style.Directory)
}

// FontFilesURLs returns style file URLs keyed by file extension. When several
// files share an extension the last one wins. Files without extension are
// ignored.
func (c *Catalog) FontFilesURLs(ctx context.Context, family *Family, style *Style) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, c.globTimeout)
	defer cancel()

	files, err := style.FilesInDirectory(ctx, c.StyleDirectory(family, style))
	if err != nil {
		c.log.Warn("Style files glob failed, using explicit files only",
			zap.String("family", family.Name), zap.String("style", style.ID()), zap.Error(err))
	}

	result := make(map[string]string, len(files))
	for _, f := range files {
		ext := strings.TrimPrefix(path.Ext(f), ".")
		if ext == "" {
			continue
		}
		result[ext] = ConcatPath(c.fontsURL, family.Directory, style.Directory, f)
	}
	return result
}
