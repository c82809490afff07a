package columns

import (
	"sort"
	"strings"
)

// Sets defines named column groups.
var Sets = map[string][]string{
	"quote": {"name", "sym", "price", "change"},
	"full":  {"name", "sym", "price", "change", "color", "logo", "status"},
	"list":  {"#", "sym", "name"},
}

// ExpandSets returns the union of the named sets, keeping first occurrences
// in order. Names that are not sets are treated as single columns.
func ExpandSets(names []string) ([]string, error) {
	out := make([]string, 0, 8)
	seen := map[string]struct{}{}
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if cols, ok := Sets[name]; ok {
			for _, c := range cols {
				add(c)
			}
			continue
		}
		k, ok := Canonical(name)
		if !ok {
			return nil, &UnknownSetError{Name: name, Available: availableSets()}
		}
		add(k)
	}
	return out, nil
}

// UnknownSetError reports a name that is neither a set nor a column.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown column or set: " + e.Name + "; sets: " + strings.Join(e.Available, ", ")
}

func availableSets() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
