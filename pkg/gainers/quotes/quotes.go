// Package quotes provides the quote and logo lookups the refresh workflow runs.
package quotes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/iex"
	"github.com/komsit37/gainers/pkg/gainers/parse"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

// QuoteService fetches the latest quote for a symbol.
type QuoteService interface {
	Quote(ctx context.Context, sym string) (types.Quote, error)
}

// LogoService resolves a logo in two steps: the reference, then its bytes.
type LogoService interface {
	LogoURL(ctx context.Context, sym string) (types.LogoReference, error)
	Image(ctx context.Context, url string) ([]byte, error)
}

// Fetcher is the subset of iex.Client used here.
type Fetcher interface {
	Get(ctx context.Context, kind iex.Kind, symbol string) ([]byte, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// IEXService pairs the API client with the response parser.
type IEXService struct {
	Client Fetcher
}

func NewIEXService(c Fetcher) *IEXService { return &IEXService{Client: c} }

func (s *IEXService) Quote(ctx context.Context, sym string) (types.Quote, error) {
	body, err := s.Client.Get(ctx, iex.Quote, sym)
	if err != nil {
		return types.Quote{}, err
	}
	return parse.Quote(body)
}

func (s *IEXService) LogoURL(ctx context.Context, sym string) (types.LogoReference, error) {
	body, err := s.Client.Get(ctx, iex.Logo, sym)
	if err != nil {
		return types.LogoReference{}, err
	}
	return parse.Logo(body)
}

func (s *IEXService) Image(ctx context.Context, url string) ([]byte, error) {
	return s.Client.FetchImage(ctx, url)
}

// Fallback asks each service in turn and returns the first success.
// The error of the last service is returned when all fail.
type Fallback struct {
	services []QuoteService
	log      *zap.Logger
}

func NewFallback(log *zap.Logger, services ...QuoteService) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{services: services, log: log}
}

func (f *Fallback) Quote(ctx context.Context, sym string) (types.Quote, error) {
	if len(f.services) == 0 {
		return types.Quote{}, fmt.Errorf("no quote services configured")
	}
	var lastErr error
	for i, s := range f.services {
		q, err := s.Quote(ctx, sym)
		if err == nil {
			return q, nil
		}
		if errors.Is(err, context.Canceled) {
			return types.Quote{}, err
		}
		if i < len(f.services)-1 {
			f.log.Warn("quote service failed, trying next", zap.String("sym", sym), zap.Int("service", i), zap.Error(err))
		}
		lastErr = err
	}
	return types.Quote{}, lastErr
}
