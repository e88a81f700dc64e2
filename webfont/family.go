package webfont

import (
	"cmp"
	"maps"
	"slices"
)

// Family is a named group of styles sharing a CSS font-family value.
type Family struct {
	Name string
	// ForbidLocal is the default for styles which do not set their own.
	ForbidLocal *bool
	// Directory is relative to the fonts directory, normalized.
	Directory string
	// styles are keyed by style id.
	styles map[string]*Style
}

// NewFamily creates a family from already built styles. Later styles replace
// earlier ones with the same id.
func NewFamily(name string, styles ...*Style) *Family {
	f := &Family{Name: name, styles: make(map[string]*Style, len(styles))}
	for _, s := range styles {
		if s != nil {
			f.styles[s.ID()] = s
		}
	}
	return f
}

// FamilyFromSettings builds a family from its settings mapping: optional
// "forbidLocal", "directory" and "styles" (style id to style settings).
func FamilyFromSettings(name string, settings any) (*Family, error) {
	m, ok := asMapping(settings)
	if !ok {
		if settings != nil {
			return nil, settingsErrorf("family '%s': settings must be a mapping, %s given", name, typeName(settings))
		}
		m = map[string]any{}
	}
	owner := "family '" + name + "'"

	f := NewFamily(name)
	f.ForbidLocal = asFlag(m["forbidLocal"])
	if dir, ok, err := optionalString(m, "directory", owner); err != nil {
		return nil, err
	} else if ok {
		f.Directory = NormalizePath(dir)
	}

	raw, ok := m["styles"]
	if !ok || raw == nil {
		return f, nil
	}
	styles, ok := asEntries(raw)
	if !ok {
		return nil, settingsErrorf("%s: styles must be a mapping, %s given", owner, typeName(raw))
	}
	keys := make(map[string]string, len(styles))
	for _, e := range styles {
		s, err := StyleFromSettings(e.key, e.value)
		if err != nil {
			return nil, settingsErrorf("%s: %v", owner, err)
		}
		id := s.ID()
		if prev, dup := keys[id]; dup {
			return nil, settingsErrorf("%s: styles '%s' and '%s' both define style %s", owner, prev, e.key, id)
		}
		keys[id] = e.key
		f.styles[id] = s
	}
	return f, nil
}

// Style finds the style by its exact id.
func (f *Family) Style(id string) (*Style, bool) {
	s, ok := f.styles[id]
	return s, ok
}

// Styles returns family styles ordered by weight, upright before italic.
func (f *Family) Styles() []*Style {
	return slices.SortedFunc(maps.Values(f.styles), func(a, b *Style) int {
		if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
			return c
		}
		switch {
		case a.Italic == b.Italic:
			return 0
		case b.Italic:
			return -1
		}
		return 1
	})
}
