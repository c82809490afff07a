package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Symbols   []types.Symbol `json:"symbols,omitempty"`
	Selection *int           `json:"selection,omitempty"`
	Quote     *jsonQuote     `json:"quote,omitempty"`
	Logo      *jsonLogo      `json:"logo,omitempty"`
	Alert     *jsonAlert     `json:"alert,omitempty"`
}

type jsonQuote struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Price   string `json:"price"`
	Change  string `json:"change"`
	Color   string `json:"color"`
	Loading bool   `json:"loading,omitempty"`
}

type jsonLogo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type jsonAlert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, snap Snapshot, opts RenderOptions) error {
	var out jsonModel
	if opts.List {
		out.Symbols = snap.Symbols
		if out.Symbols == nil {
			out.Symbols = []types.Symbol{}
		}
		sel := int(snap.Selection)
		out.Selection = &sel
	} else {
		st := snap.State
		out.Quote = &jsonQuote{
			Name:    st.Name,
			Symbol:  st.Symbol,
			Price:   st.Price,
			Change:  st.Change,
			Color:   st.Color.String(),
			Loading: st.Loading,
		}
		if st.Logo != nil {
			b := st.Logo.Bounds()
			out.Logo = &jsonLogo{Width: b.Dx(), Height: b.Dy()}
		}
		if st.Alert != nil {
			out.Alert = &jsonAlert{Title: st.Alert.Title, Message: st.Alert.Message, Action: st.Alert.Action}
		}
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
