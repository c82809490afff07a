package render

import (
	"fmt"
	"io"
	"strings"
)

// symsRenderer prints all tickers in a single comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, snap Snapshot, opts RenderOptions) error {
	if !opts.List {
		_, err := fmt.Fprintln(w, snap.State.Symbol)
		return err
	}
	symbols := make([]string, 0, len(snap.Symbols))
	for _, s := range snap.Symbols {
		if t := strings.TrimSpace(s.Ticker); t != "" {
			symbols = append(symbols, t)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
