package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/gainers/pkg/gainers/types"
)

// YFService reads quotes from Yahoo Finance. It is only used as a fallback.
type YFService struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYFService(timeout time.Duration) *YFService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YFService{client: yfgo.NewClient(), timeout: timeout}
}

func (s *YFService) Quote(ctx context.Context, sym string) (types.Quote, error) {
	if strings.TrimSpace(sym) == "" {
		return types.Quote{}, fmt.Errorf("%w: empty symbol", types.ErrTransport)
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo %s: %v", types.ErrTransport, sym, err)
	}
	return quoteFromPrice(sym, res.Price)
}

// quoteFromPrice maps Yahoo's price module. The absolute change is taken as
// reported; the percent is only used when it is missing.
func quoteFromPrice(sym string, p *yfgo.PriceModule) (types.Quote, error) {
	if p == nil || p.RegularMarketPrice.Raw == nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo %s: no price", types.ErrMalformedPayload, sym)
	}

	price := *p.RegularMarketPrice.Raw
	var change float64
	switch {
	case p.RegularMarketChange.Raw != nil:
		change = *p.RegularMarketChange.Raw
	case p.RegularMarketChangePercent.Raw != nil:
		change = changeFromPercent(price, *p.RegularMarketChangePercent.Raw)
	}
	name := p.ShortName
	if name == "" {
		name = p.LongName
	}
	return types.Quote{
		CompanyName: name,
		Symbol:      strings.ToUpper(sym),
		LatestPrice: price,
		Change:      change,
	}, nil
}

// changeFromPercent recovers the absolute change from a fractional change
// percent (0.0123 for 1.23%).
func changeFromPercent(price, pct float64) float64 {
	if pct <= -1 {
		return 0
	}
	prev := price / (1 + pct)
	return price - prev
}
