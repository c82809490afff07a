package types

import (
	"errors"
	"image"
)

// Error taxonomy shared by the fetch, parse and display layers.
var (
	// ErrTransport covers non-200 responses, transport errors and bad URLs.
	ErrTransport = errors.New("connectivity failure")
	// ErrMalformedPayload reports a JSON shape mismatch.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrSymbolFile reports a local company list that cannot be read.
	ErrSymbolFile = errors.New("symbol file unavailable")
	// ErrImageDecode is never surfaced to the user.
	ErrImageDecode = errors.New("image decode failure")
)

// DefaultSymbol is refreshed while no company list is available.
const DefaultSymbol = "KOSS"

// Placeholder is shown in every text field while a refresh is in flight.
const Placeholder = "-"

// Symbol pairs a ticker with a human-readable company name.
type Symbol struct {
	Ticker      string `json:"symbol" yaml:"symbol"`
	CompanyName string `json:"companyName" yaml:"companyName"`
}

// Quote is fetched fresh on every refresh and never stored.
type Quote struct {
	CompanyName string  `json:"companyName"`
	Symbol      string  `json:"symbol"`
	LatestPrice float64 `json:"latestPrice"`
	Change      float64 `json:"change"`
}

// LogoReference points at an image resource.
type LogoReference struct {
	URL string `json:"url"`
}

// Selection is an index into SymbolMap.Values.
type Selection int

// ColorTag classifies the sign of a price change.
type ColorTag int

const (
	Neutral ColorTag = iota
	Positive
	Negative
)

func (c ColorTag) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Alert is a retry-capable warning shown over the screen.
type Alert struct {
	Title   string
	Message string
	Action  string
}

// PresentationState is everything the screen renders.
type PresentationState struct {
	Name    string
	Symbol  string
	Price   string
	Change  string
	Color   ColorTag
	Logo    image.Image
	Loading bool
	Alert   *Alert
}

// Blank returns the state shown while a refresh is loading.
func Blank() PresentationState {
	return PresentationState{
		Name:    Placeholder,
		Symbol:  Placeholder,
		Price:   Placeholder,
		Change:  Placeholder,
		Loading: true,
	}
}
