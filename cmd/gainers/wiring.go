package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/connectivity"
	"github.com/komsit37/gainers/pkg/gainers/filter"
	"github.com/komsit37/gainers/pkg/gainers/iex"
	"github.com/komsit37/gainers/pkg/gainers/present"
	"github.com/komsit37/gainers/pkg/gainers/quotes"
	"github.com/komsit37/gainers/pkg/gainers/source"
	"github.com/komsit37/gainers/pkg/gainers/workflow"
)

// workflow builds a workflow from the loaded config. sym overrides the
// default symbol when set.
func (a *app) workflow(ctx context.Context, sym string) (*workflow.Workflow, error) {
	cfg := a.cfg
	flt, err := filter.Parse(cfg.Symbols.Filter)
	if err != nil {
		return nil, err
	}

	client := iex.NewClient(iex.Config{
		BaseURL: cfg.IEX.BaseURL,
		Token:   cfg.IEX.Token,
		Timeout: cfg.HTTP.Timeout,
	}, a.log, a.metrics)
	svc := quotes.NewIEXService(client)

	var quoteSvc quotes.QuoteService = svc
	if len(cfg.Quote.Fallback) > 0 {
		chain := []quotes.QuoteService{svc}
		for _, name := range cfg.Quote.Fallback {
			if name == "yahoo" {
				chain = append(chain, quotes.NewYFService(cfg.HTTP.Timeout))
			}
		}
		quoteSvc = quotes.NewFallback(a.log, chain...)
	}

	var src source.Source = source.GainersSource{Client: client}
	if cfg.Symbols.File != "" {
		src = source.YAMLSource{Path: cfg.Symbols.File}
	}

	var checker connectivity.Checker = connectivity.RouteProbe{
		Addr:    cfg.Connectivity.ProbeAddr,
		Timeout: cfg.Connectivity.Timeout,
	}
	if cfg.Connectivity.Offline {
		checker = connectivity.Static(false)
	}

	if sym == "" {
		sym = cfg.Symbols.Default
	}
	a.log.Debug("workflow configured",
		zap.String("source", sourceName(src)),
		zap.Int("quote_backends", 1+len(cfg.Quote.Fallback)),
		zap.String("filter", cfg.Symbols.Filter),
		zap.String("default", sym))

	return workflow.New(ctx, workflow.Deps{
		Source:  src,
		Quotes:  quoteSvc,
		Logos:   svc,
		Checker: checker,
		Log:     a.log,
		Metrics: a.metrics,
	}, workflow.Options{
		DefaultSymbol:            sym,
		GateAlertsOnConnectivity: cfg.Alerts.GateOnConnectivity,
		Format:                   present.Format{Decimals: cfg.Display.Decimals},
		Filter:                   flt,
	}), nil
}

func sourceName(s source.Source) string {
	switch s := s.(type) {
	case source.YAMLSource:
		return "yaml:" + s.Path
	default:
		return "iex"
	}
}
