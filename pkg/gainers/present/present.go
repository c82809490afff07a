// Package present turns quotes into display strings and colors.
package present

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Format controls number rendering. Decimals < 0 prints the shortest exact
// form and always keeps one fractional digit ("12.0", "10.5").
type Format struct {
	Decimals int
}

var Shortest = Format{Decimals: -1}

func (f Format) Number(v float64) string {
	d := decimal.NewFromFloat(v)
	if f.Decimals >= 0 {
		return d.StringFixed(int32(f.Decimals))
	}
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Color classifies change by sign.
func Color(change float64) types.ColorTag {
	switch {
	case change > 0:
		return types.Positive
	case change < 0:
		return types.Negative
	default:
		return types.Neutral
	}
}

// Apply fills the quote fields of st and stops loading. Logo and alert are untouched.
func (f Format) Apply(st *types.PresentationState, q types.Quote) {
	st.Loading = false
	st.Name = q.CompanyName
	st.Symbol = q.Symbol
	st.Price = f.Number(q.LatestPrice)
	st.Change = f.Number(q.Change)
	st.Color = Color(q.Change)
}
