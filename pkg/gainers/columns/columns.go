package columns

import (
	"fmt"
	"strings"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Row is what a column resolver reads: either a picker option or the quote screen.
type Row struct {
	Index    int
	Selected bool
	Symbol   types.Symbol
	State    types.PresentationState
}

// Resolver renders one cell.
type Resolver func(r Row) string

// Registry maps column keys to resolvers.
var Registry = map[string]Resolver{}

// aliases maps accepted spellings to registry keys.
var aliases = map[string]string{
	"symbol":      "sym",
	"ticker":      "sym",
	"company":     "name",
	"companyname": "name",
	"chg":         "change",
	"last":        "price",
	"idx":         "#",
}

func init() {
	Registry["#"] = func(r Row) string {
		if r.Selected {
			return fmt.Sprintf("%d*", r.Index)
		}
		return fmt.Sprint(r.Index)
	}
	// sym: option ticker, else the quote symbol
	Registry["sym"] = func(r Row) string {
		if r.Symbol.Ticker != "" {
			return r.Symbol.Ticker
		}
		return r.State.Symbol
	}
	Registry["name"] = func(r Row) string {
		if r.Symbol.CompanyName != "" {
			return r.Symbol.CompanyName
		}
		return r.State.Name
	}
	Registry["price"] = func(r Row) string { return r.State.Price }
	Registry["change"] = func(r Row) string { return r.State.Change }
	Registry["color"] = func(r Row) string { return r.State.Color.String() }
	// logo: pixel size of the decoded image
	Registry["logo"] = func(r Row) string {
		if r.State.Logo == nil {
			return ""
		}
		b := r.State.Logo.Bounds()
		return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
	}
	Registry["status"] = func(r Row) string {
		switch {
		case r.State.Alert != nil:
			return r.State.Alert.Message
		case r.State.Loading:
			return "loading"
		default:
			return ""
		}
	}
}

// Canonical resolves aliases and reports whether the column is known.
func Canonical(col string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(col))
	if a, ok := aliases[k]; ok {
		k = a
	}
	_, ok := Registry[k]
	return k, ok
}

// Compute returns explicit columns in order without duplicates, or fallback
// when none are given. Unknown columns are an error.
func Compute(explicit, fallback []string) ([]string, error) {
	if len(explicit) == 0 {
		return append([]string(nil), fallback...), nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, c := range explicit {
		k, ok := Canonical(c)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}

// Value renders col for r; unknown columns render empty.
func Value(col string, r Row) string {
	if res, ok := Registry[col]; ok {
		return res(r)
	}
	return ""
}

// Header is the display label of a column.
func Header(col string) string {
	return strings.ToUpper(col)
}
