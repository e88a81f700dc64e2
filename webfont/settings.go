package webfont

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/maruel/natural"
)

// Settings arrive as decoded YAML or TOML. yaml.v3 produces map[string]any
// when all keys are strings and map[any]any otherwise (style ids such as 400
// are integers in YAML), so both are accepted and keys are stringified.

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[keyString(k)] = val
		}
		return out, true
	}
	return nil, false
}

type entry struct {
	key   string
	value any
}

// asEntries is asMapping which keeps every key, including integer and string
// keys that stringify the same. Entries are in natural key order.
func asEntries(v any) ([]entry, bool) {
	var out []entry
	switch m := v.(type) {
	case map[string]any:
		out = make([]entry, 0, len(m))
		for k, val := range m {
			out = append(out, entry{k, val})
		}
	case map[any]any:
		out = make([]entry, 0, len(m))
		for k, val := range m {
			out = append(out, entry{keyString(k), val})
		}
	default:
		return nil, false
	}
	slices.SortStableFunc(out, func(a, b entry) int {
		switch {
		case natural.Less(a.key, b.key):
			return -1
		case natural.Less(b.key, a.key):
			return 1
		}
		return cmp.Compare(a.key, b.key)
	})
	return out, true
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// asFlag coerces a configured value to an optional boolean using the loose
// truthiness operators expect from hand-written config: zero numbers, empty
// strings, "0" and "false" are false. Absent and null values yield nil.
func asFlag(v any) *bool {
	var b bool
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		b = x
	case int:
		b = x != 0
	case int64:
		b = x != 0
	case uint64:
		b = x != 0
	case float64:
		b = x != 0
	case string:
		if p, err := strconv.ParseBool(x); err == nil {
			b = p
		} else {
			b = x != "" && x != "0"
		}
	default:
		b = true
	}
	return &b
}

// optionalString returns the string stored under key. Missing and null
// entries are reported as absent, any other non-string type is an error.
func optionalString(m map[string]any, key, owner string) (string, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, settingsErrorf("%s: %s must be a string or null, %s given", owner, key, typeName(v))
	}
	return s, true, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "float"
	}
	if _, ok := asMapping(v); ok {
		return "mapping"
	}
	if _, ok := asList(v); ok {
		return "list"
	}
	return fmt.Sprintf("%T", v)
}
