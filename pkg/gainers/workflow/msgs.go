package workflow

import (
	"context"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Msg is the result of a Cmd, delivered back to the owner goroutine.
type Msg interface{}

// Cmd performs blocking work off the owner goroutine. It must not touch the Workflow.
type Cmd func() Msg

// Operation names carried by FetchFailedMsg.
const (
	OpList  = "list"
	OpQuote = "quote"
	OpLogo  = "logo"
	OpImage = "image"
)

// ListLoadedMsg carries the company list. Symbols may hold a prefix when Err
// reports a bad element.
type ListLoadedMsg struct {
	Symbols []types.Symbol
	Err     error
}

type QuoteMsg struct {
	Gen   uint64
	Quote types.Quote
}

type LogoURLMsg struct {
	Gen uint64
	Ref types.LogoReference
}

type LogoImageMsg struct {
	Gen  uint64
	Data []byte
}

type FetchFailedMsg struct {
	Gen uint64
	Op  string
	Err error
}

func (w *Workflow) loadList() Cmd {
	ctx, src := w.ctx, w.src
	return func() Msg {
		syms, err := src.Load(ctx)
		return ListLoadedMsg{Symbols: syms, Err: err}
	}
}

func (w *Workflow) fetchQuote(ctx context.Context, gen uint64, sym string) Cmd {
	svc := w.quotes
	return func() Msg {
		q, err := svc.Quote(ctx, sym)
		if err != nil {
			return FetchFailedMsg{Gen: gen, Op: OpQuote, Err: err}
		}
		return QuoteMsg{Gen: gen, Quote: q}
	}
}

func (w *Workflow) fetchLogo(ctx context.Context, gen uint64, sym string) Cmd {
	svc := w.logos
	return func() Msg {
		ref, err := svc.LogoURL(ctx, sym)
		if err != nil {
			return FetchFailedMsg{Gen: gen, Op: OpLogo, Err: err}
		}
		return LogoURLMsg{Gen: gen, Ref: ref}
	}
}

// fetchImage is the second step of the logo chain, issued once the URL is known.
func (w *Workflow) fetchImage(gen uint64, ref types.LogoReference) Cmd {
	ctx, svc := w.scope, w.logos
	return func() Msg {
		data, err := svc.Image(ctx, ref.URL)
		if err != nil {
			return FetchFailedMsg{Gen: gen, Op: OpImage, Err: err}
		}
		return LogoImageMsg{Gen: gen, Data: data}
	}
}
