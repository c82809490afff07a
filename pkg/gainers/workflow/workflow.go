// Package workflow drives the quote screen: it loads the company list, refreshes
// the quote and logo of the selected company, and raises retry alerts.
//
// A Workflow is owned by one goroutine. Network work is returned as Cmds; the
// host runs them elsewhere and feeds the resulting Msgs back through Update on
// the owner goroutine. Nothing inside takes a lock.
package workflow

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/connectivity"
	"github.com/komsit37/gainers/pkg/gainers/filter"
	"github.com/komsit37/gainers/pkg/gainers/metrics"
	"github.com/komsit37/gainers/pkg/gainers/parse"
	"github.com/komsit37/gainers/pkg/gainers/present"
	"github.com/komsit37/gainers/pkg/gainers/quotes"
	"github.com/komsit37/gainers/pkg/gainers/source"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

type State int

const (
	Idle State = iota
	ListLoading
	Ready
	Refreshing
)

func (s State) String() string {
	switch s {
	case ListLoading:
		return "list-loading"
	case Ready:
		return "ready"
	case Refreshing:
		return "refreshing"
	default:
		return "idle"
	}
}

// Alert texts.
const (
	AlertTitle       = "Warning"
	AlertAction      = "Try again"
	MsgNoConnection  = "No internet connection"
	MsgMalformedJSON = "Something is wrong with JSON"
	MsgSymbolFile    = "Cannot read the symbol file"
)

const (
	reasonTransport = "transport"
	reasonMalformed = "malformed"
	reasonPreflight = "offline"
	reasonSource    = "source"
)

// Deps are the collaborators. Checker, Log and Metrics may be nil.
type Deps struct {
	Source  source.Source
	Quotes  quotes.QuoteService
	Logos   quotes.LogoService
	Checker connectivity.Checker
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type Options struct {
	// DefaultSymbol is refreshed while the company list is empty.
	DefaultSymbol string
	// GateAlertsOnConnectivity shows fetch alerts only while the checker
	// reports no connection.
	GateAlertsOnConnectivity bool

	Format present.Format
	Filter filter.Filter
}

type Workflow struct {
	ctx    context.Context
	cancel context.CancelFunc

	src     source.Source
	quotes  quotes.QuoteService
	logos   quotes.LogoService
	checker connectivity.Checker
	log     *zap.Logger
	metrics *metrics.Metrics
	opts    Options

	started       bool
	listInFlight  int
	refreshing    bool
	symbols       *types.SymbolMap
	optionsVer    uint64
	selection     int
	gen           uint64
	scope         context.Context
	refreshCancel context.CancelFunc
	pres          types.PresentationState
}

// New builds an Idle workflow. Cancelling ctx aborts every request it issued.
func New(ctx context.Context, deps Deps, opts Options) *Workflow {
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = types.DefaultSymbol
	}
	if opts.Filter == nil {
		opts.Filter = filter.Always(true)
	}
	if deps.Checker == nil {
		deps.Checker = connectivity.Static(true)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", uuid.NewString()))

	cctx, cancel := context.WithCancel(ctx)
	pres := types.Blank()
	pres.Loading = false
	return &Workflow{
		ctx:     cctx,
		cancel:  cancel,
		src:     deps.Source,
		quotes:  deps.Quotes,
		logos:   deps.Logos,
		checker: deps.Checker,
		log:     log,
		metrics: deps.Metrics,
		opts:    opts,
		symbols: types.NewSymbolMap(),
		pres:    pres,
	}
}

// Close cancels everything in flight. Msgs that arrive afterwards are dropped.
func (w *Workflow) Close() {
	w.cancel()
}

func (w *Workflow) State() State {
	switch {
	case !w.started:
		return Idle
	case w.listInFlight > 0:
		return ListLoading
	case w.refreshing:
		return Refreshing
	default:
		return Ready
	}
}

// Presentation returns a copy of the display state.
func (w *Workflow) Presentation() types.PresentationState {
	p := w.pres
	if p.Alert != nil {
		a := *p.Alert
		p.Alert = &a
	}
	return p
}

// Symbols returns the picker options in order.
func (w *Workflow) Symbols() []types.Symbol { return w.symbols.Symbols() }

// OptionsVersion changes whenever the picker options grew.
func (w *Workflow) OptionsVersion() uint64 { return w.optionsVer }

func (w *Workflow) Selection() types.Selection { return types.Selection(w.selection) }

// Generation identifies the current refresh.
func (w *Workflow) Generation() uint64 { return w.gen }

// Symbol is the ticker the next refresh would fetch.
func (w *Workflow) Symbol() string {
	if s, ok := w.symbols.At(w.selection); ok {
		return s.Ticker
	}
	return w.opts.DefaultSymbol
}

// Start loads the list and, independently, refreshes the current selection
// (the default symbol on first start). The list never triggers a refresh.
func (w *Workflow) Start() []Cmd {
	w.started = true
	w.listInFlight++
	w.log.Info("start", zap.Int("known", w.symbols.Len()), zap.String("sym", w.Symbol()))
	cmds := []Cmd{w.loadList()}
	return append(cmds, w.refresh()...)
}

// Select refreshes the company at index in the picker order. Out of range
// indexes are clamped; with no companies the default symbol is used.
func (w *Workflow) Select(index int) []Cmd {
	if n := w.symbols.Len(); n > 0 {
		if index >= n {
			index = n - 1
		}
		if index < 0 {
			index = 0
		}
		w.selection = index
	} else {
		w.selection = 0
	}
	return w.refresh()
}

// Retry dismisses the alert and starts over: the list and the refresh.
func (w *Workflow) Retry() []Cmd {
	w.pres.Alert = nil
	return w.Start()
}

// Update applies a Msg produced by one of the workflow's Cmds.
func (w *Workflow) Update(msg Msg) []Cmd {
	if w.ctx.Err() != nil {
		return nil
	}
	switch m := msg.(type) {
	case ListLoadedMsg:
		w.onListLoaded(m)
	case QuoteMsg:
		if w.stale(m.Gen, "quote") {
			return nil
		}
		w.opts.Format.Apply(&w.pres, m.Quote)
		w.refreshing = false
	case LogoURLMsg:
		if w.stale(m.Gen, "logo") {
			return nil
		}
		return []Cmd{w.fetchImage(m.Gen, m.Ref)}
	case LogoImageMsg:
		if w.stale(m.Gen, "image") {
			return nil
		}
		img, _, err := image.Decode(bytes.NewReader(m.Data))
		if err != nil {
			w.log.Debug("logo dropped", zap.Error(errors.Join(types.ErrImageDecode, err)))
			return nil
		}
		w.pres.Logo = img
	case FetchFailedMsg:
		if w.stale(m.Gen, m.Op) {
			return nil
		}
		if m.Op == OpQuote {
			w.refreshing = false
		}
		w.fail(m.Op, m.Err)
	}
	return nil
}

func (w *Workflow) stale(gen uint64, op string) bool {
	if gen == w.gen {
		return false
	}
	w.metrics.IncStale()
	w.log.Debug("stale response dropped", zap.String("op", op), zap.Uint64("gen", gen), zap.Uint64("current", w.gen))
	return true
}

func (w *Workflow) onListLoaded(m ListLoadedMsg) {
	if w.listInFlight > 0 {
		w.listInFlight--
	}
	syms := filter.Apply(w.opts.Filter, m.Symbols)
	if added := w.symbols.Merge(syms); added > 0 {
		w.optionsVer++
	}
	w.log.Info("list loaded", zap.Int("received", len(m.Symbols)), zap.Int("kept", len(syms)), zap.Int("known", w.symbols.Len()))
	if m.Err == nil {
		return
	}
	var pe *parse.Error
	if errors.As(m.Err, &pe) && pe.Index >= 0 {
		// A bad element ends the list without bothering the user.
		w.log.Warn("list truncated", zap.Error(m.Err))
		return
	}
	w.fail(OpList, m.Err)
}

func (w *Workflow) refresh() []Cmd {
	if w.refreshCancel != nil {
		w.refreshCancel()
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.scope, w.refreshCancel = ctx, cancel
	w.gen++
	gen := w.gen
	sym := w.Symbol()

	logo, alert := w.pres.Logo, w.pres.Alert
	w.pres = types.Blank()
	w.pres.Logo, w.pres.Alert = logo, alert
	w.refreshing = true
	w.metrics.IncRefresh()
	w.log.Debug("refresh", zap.String("sym", sym), zap.Uint64("gen", gen))

	if !w.checker.Connected() {
		w.raise(reasonPreflight, MsgNoConnection)
	}
	return []Cmd{w.fetchQuote(ctx, gen, sym), w.fetchLogo(ctx, gen, sym)}
}

func (w *Workflow) fail(op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	reason, text := classify(err)
	w.log.Warn("fetch failed", zap.String("op", op), zap.String("reason", reason), zap.Error(err))
	if w.opts.GateAlertsOnConnectivity && w.checker.Connected() {
		w.log.Debug("alert suppressed while connected", zap.String("op", op))
		return
	}
	w.raise(reason, text)
}

func (w *Workflow) raise(reason, text string) {
	w.metrics.IncAlert(reason)
	w.pres.Alert = &types.Alert{Title: AlertTitle, Message: text, Action: AlertAction}
}

func classify(err error) (string, string) {
	if errors.Is(err, types.ErrSymbolFile) {
		return reasonSource, MsgSymbolFile
	}
	if errors.Is(err, types.ErrMalformedPayload) {
		return reasonMalformed, MsgMalformedJSON
	}
	return reasonTransport, MsgNoConnection
}
