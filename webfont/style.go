package webfont

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
)

var (
	styleIDSettings = regexp.MustCompile(`(?i)^([0-9]+)(i?)$`)
	styleIDRequest  = regexp.MustCompile(`^([0-9]+)(i?)$`)
)

// weightNames is the conventional naming of font weights.
var weightNames = map[int]string{
	100: "Thin",
	200: "Extra Light",
	300: "Light",
	400: "Regular",
	500: "Medium",
	600: "Semi Bold",
	700: "Bold",
	800: "Extra Bold",
	900: "Black",
}

// SourceKind tells where style files come from.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceList            // explicit list of files
	SourceGlob            // pattern resolved at generation time
	SourceBoth            // list and pattern, results are unioned
)

// FileSource describes the files of a style relative to the style directory.
type FileSource struct {
	List []string
	Glob string
}

// Kind reports which of the sources are populated.
func (fs FileSource) Kind() SourceKind {
	switch {
	case len(fs.List) > 0 && fs.Glob != "":
		return SourceBoth
	case fs.Glob != "":
		return SourceGlob
	case len(fs.List) > 0:
		return SourceList
	}
	return SourceNone
}

// Style is a single weight/italic variant of a family.
type Style struct {
	Weight int
	Italic bool
	// ForbidLocal overrides the family setting when not nil.
	ForbidLocal *bool
	// Directory is relative to the family directory, normalized.
	Directory string
	// Name replaces the weight word of the display name when not empty.
	Name  string
	Files FileSource
}

// ParseStyleID splits a style identifier like "700i" into weight and italic
// flag. Settings keys are matched case-insensitively ("400I" is accepted).
func ParseStyleID(id string) (weight int, italic bool, err error) {
	return parseStyleID(styleIDSettings, id)
}

func parseStyleID(re *regexp.Regexp, id string) (int, bool, error) {
	m := re.FindStringSubmatch(id)
	if m == nil {
		return 0, false, fmt.Errorf("style identifier '%s' has invalid format", id)
	}
	weight, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, fmt.Errorf("style identifier '%s' has invalid weight: %w", id, err)
	}
	return weight, m[2] != "", nil
}

// StyleFromSettings builds a style from its identifier and settings. Settings
// are either a glob string or a mapping with "files" (glob string or list of
// files), optional "glob", "directory", "forbidLocal" and "name" entries.
func StyleFromSettings(id string, settings any) (*Style, error) {
	weight, italic, err := ParseStyleID(id)
	if err != nil {
		return nil, &SettingsError{Msg: err.Error()}
	}
	s := &Style{Weight: weight, Italic: italic}

	if glob, ok := settings.(string); ok {
		s.Files.Glob = NormalizePath(glob)
		return s, nil
	}

	m, ok := asMapping(settings)
	if !ok {
		return nil, settingsErrorf("style '%s': settings must be a string or a mapping, %s given", id, typeName(settings))
	}
	owner := "style '" + id + "'"

	s.ForbidLocal = asFlag(m["forbidLocal"])
	if dir, ok, err := optionalString(m, "directory", owner); err != nil {
		return nil, err
	} else if ok {
		s.Directory = NormalizePath(dir)
	}
	if name, ok, err := optionalString(m, "name", owner); err != nil {
		return nil, err
	} else if ok {
		s.Name = strings.TrimSpace(name)
	}
	glob, hasGlob, err := optionalString(m, "glob", owner)
	if err != nil {
		return nil, err
	}

	switch files := m["files"].(type) {
	case string:
		if hasGlob {
			return nil, settingsErrorf("%s: files pattern and glob cannot be used together", owner)
		}
		s.Files.Glob = NormalizePath(files)
	case nil:
		if !hasGlob {
			return nil, settingsErrorf("%s: files must be a list or a string, null given", owner)
		}
	default:
		list, ok := asList(files)
		if !ok {
			return nil, settingsErrorf("%s: files must be a list or a string, %s given", owner, typeName(files))
		}
		s.Files.List = make([]string, 0, len(list))
		for i, f := range list {
			name, ok := f.(string)
			if !ok {
				return nil, settingsErrorf("%s: files[%d] must be a string, %s given", owner, i, typeName(f))
			}
			s.Files.List = append(s.Files.List, NormalizePath(name))
		}
	}
	if hasGlob {
		s.Files.Glob = NormalizePath(glob)
	}
	return s, nil
}

// ID returns the style identifier, e.g. "400" or "400i".
func (s *Style) ID() string {
	id := strconv.Itoa(s.Weight)
	if s.Italic {
		id += "i"
	}
	return id
}

// DisplayName returns human readable style name, e.g. "Medium Italic". Regular
// weight is omitted, so upright 400 has an empty name.
func (s *Style) DisplayName() string {
	var words []string
	switch {
	case s.Name != "":
		words = append(words, s.Name)
	case s.Weight == 400:
	default:
		if name, ok := weightNames[s.Weight]; ok {
			words = append(words, name)
		} else {
			words = append(words, strconv.Itoa(s.Weight))
		}
	}
	if s.Italic {
		words = append(words, "Italic")
	}
	return strings.Join(words, " ")
}

// FilesInDirectory returns the style files relative to dir: the explicit list
// in configured order followed by glob matches in natural order. When glob
// resolution fails the explicit list is still returned along with the error.
func (s *Style) FilesInDirectory(ctx context.Context, dir string) ([]string, error) {
	result := slices.Clone(s.Files.List)
	if dir == "" || s.Files.Glob == "" {
		return result, nil
	}

	matches, err := globFiles(ctx, dir, s.Files.Glob)
	if err != nil {
		return result, fmt.Errorf("unable to resolve '%s' in '%s': %w", s.Files.Glob, dir, err)
	}
	for _, m := range matches {
		result = append(result, NormalizePath(m))
	}
	return result, nil
}

// globFiles runs the directory scan in the background so a slow file system
// cannot hold the request past the context deadline.
func globFiles(ctx context.Context, dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	type result struct {
		matches []string
		err     error
	}
	// literal leading directories may leave dir, wildcard segments may not
	base, rest := doublestar.SplitPattern(pattern)
	if slices.Contains(strings.Split(rest, "/"), "..") {
		return nil, fmt.Errorf("'..' after wildcards: %w", doublestar.ErrBadPattern)
	}
	root := filepath.Join(dir, filepath.FromSlash(base))

	done := make(chan result, 1)
	go func() {
		matches, err := doublestar.Glob(os.DirFS(root), rest, doublestar.WithFilesOnly())
		if base != "." {
			for i, m := range matches {
				matches[i] = path.Join(base, m)
			}
		}
		done <- result{matches, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		slices.SortFunc(r.matches, func(a, b string) int {
			switch {
			case natural.Less(a, b):
				return -1
			case natural.Less(b, a):
				return 1
			}
			return 0
		})
		return r.matches, nil
	}
}
