package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Filter decides whether a company reaches the picker.
type Filter interface {
	Match(s types.Symbol) bool
}

// Parse builds a filter from an expression. Each form is tried against both
// the ticker and the company name:
//   - Comma-separated tickers: "AAPL,MSFT"
//   - Glob: "A*"
//   - Regex: "/Inc\.?$/"
//   - anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				set[p] = struct{}{}
			}
		}
		return TickerSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?[") {
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: strings.ToLower(expr)}, nil
}

// Apply keeps the symbols f matches, in order.
func Apply(f Filter, syms []types.Symbol) []types.Symbol {
	if f == nil {
		return syms
	}
	out := make([]types.Symbol, 0, len(syms))
	for _, s := range syms {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

type Always bool

func (a Always) Match(types.Symbol) bool { return bool(a) }

type TickerSet struct{ set map[string]struct{} }

func (t TickerSet) Match(s types.Symbol) bool {
	_, ok := t.set[strings.ToUpper(s.Ticker)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(s types.Symbol) bool {
	if ok, _ := filepath.Match(g.pattern, s.Ticker); ok {
		return true
	}
	ok, _ := filepath.Match(g.pattern, s.CompanyName)
	return ok
}

func (g Glob) String() string { return fmt.Sprintf("glob:%s", g.pattern) }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(s types.Symbol) bool {
	return r.re.MatchString(s.Ticker) || r.re.MatchString(s.CompanyName)
}

func (r Regex) String() string { return fmt.Sprintf("regex:%s", r.re) }

// SubstrCI matches if ticker or name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (c SubstrCI) Match(s types.Symbol) bool {
	return strings.Contains(strings.ToLower(s.Ticker), c.needle) ||
		strings.Contains(strings.ToLower(s.CompanyName), c.needle)
}

func (c SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", c.needle) }
