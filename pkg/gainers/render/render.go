package render

import (
	"io"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Snapshot is one frame of the quote screen.
type Snapshot struct {
	Symbols   []types.Symbol
	Selection types.Selection
	State     types.PresentationState
}

// Renderer writes a snapshot to an output writer.
type Renderer interface {
	Render(w io.Writer, snap Snapshot, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	// List renders the picker options instead of the quote.
	List bool
}

// New picks a renderer by output name.
func New(output string) (Renderer, bool) {
	switch output {
	case "", "table":
		return NewTableRenderer(), true
	case "json":
		return NewJSONRenderer(), true
	case "syms":
		return NewSymsRenderer(), true
	default:
		return nil, false
	}
}
