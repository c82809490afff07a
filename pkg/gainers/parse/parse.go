// Package parse extracts typed records from IEX JSON payloads.
package parse

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Error describes a payload that does not have the expected shape.
// Index is the offending array element, or -1.
type Error struct {
	What   string
	Index  int
	Reason string
}

func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.What, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.What, e.Reason)
}

func (e *Error) Unwrap() error { return types.ErrMalformedPayload }

func malformed(what string, index int, format string, args ...any) error {
	return &Error{What: what, Index: index, Reason: fmt.Sprintf(format, args...)}
}

// SymbolList decodes the gainers array. Processing stops at the first element
// missing a string symbol or companyName; the symbols before it are returned
// alongside the error.
func SymbolList(b []byte) ([]types.Symbol, error) {
	if !gjson.ValidBytes(b) {
		return nil, malformed("symbol list", -1, "invalid json")
	}
	root := gjson.ParseBytes(b)
	if !root.IsArray() {
		return nil, malformed("symbol list", -1, "expected array, got %s", kind(root))
	}
	elems := root.Array()
	out := make([]types.Symbol, 0, len(elems))
	for i, e := range elems {
		sym, err := stringField(e, "symbol", "symbol list", i)
		if err != nil {
			return out, err
		}
		name, err := stringField(e, "companyName", "symbol list", i)
		if err != nil {
			return out, err
		}
		out = append(out, types.Symbol{Ticker: sym, CompanyName: name})
	}
	return out, nil
}

// Quote decodes a quote object; every field is required.
func Quote(b []byte) (types.Quote, error) {
	root, err := object(b, "quote")
	if err != nil {
		return types.Quote{}, err
	}
	var q types.Quote
	if q.CompanyName, err = stringField(root, "companyName", "quote", -1); err != nil {
		return types.Quote{}, err
	}
	if q.Symbol, err = stringField(root, "symbol", "quote", -1); err != nil {
		return types.Quote{}, err
	}
	if q.LatestPrice, err = numberField(root, "latestPrice", "quote"); err != nil {
		return types.Quote{}, err
	}
	if q.Change, err = numberField(root, "change", "quote"); err != nil {
		return types.Quote{}, err
	}
	return q, nil
}

// Logo decodes the logo object.
func Logo(b []byte) (types.LogoReference, error) {
	root, err := object(b, "logo")
	if err != nil {
		return types.LogoReference{}, err
	}
	u, err := stringField(root, "url", "logo", -1)
	if err != nil {
		return types.LogoReference{}, err
	}
	return types.LogoReference{URL: u}, nil
}

func object(b []byte, what string) (gjson.Result, error) {
	if !gjson.ValidBytes(b) {
		return gjson.Result{}, malformed(what, -1, "invalid json")
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return gjson.Result{}, malformed(what, -1, "expected object, got %s", kind(root))
	}
	return root, nil
}

func stringField(r gjson.Result, key, what string, index int) (string, error) {
	v := r.Get(key)
	if !v.Exists() {
		return "", malformed(what, index, "missing %q", key)
	}
	if v.Type != gjson.String {
		return "", malformed(what, index, "%q is %s, want string", key, kind(v))
	}
	return v.Str, nil
}

func numberField(r gjson.Result, key, what string) (float64, error) {
	v := r.Get(key)
	if !v.Exists() {
		return 0, malformed(what, -1, "missing %q", key)
	}
	if v.Type != gjson.Number {
		return 0, malformed(what, -1, "%q is %s, want number", key, kind(v))
	}
	if math.IsInf(v.Num, 0) || math.IsNaN(v.Num) {
		return 0, malformed(what, -1, "%q is out of range", key)
	}
	return v.Num, nil
}

func kind(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "bool"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if r.IsArray() {
			return "array"
		}
		return "object"
	}
}
