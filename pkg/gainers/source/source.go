package source

import (
	"context"

	"github.com/komsit37/gainers/pkg/gainers/iex"
	"github.com/komsit37/gainers/pkg/gainers/parse"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

// Source loads the companies offered by the picker. A partial result may
// accompany an error; callers decide whether to keep it.
type Source interface {
	Load(ctx context.Context) ([]types.Symbol, error)
}

// Fetcher is the part of iex.Client a Source needs.
type Fetcher interface {
	Get(ctx context.Context, kind iex.Kind, symbol string) ([]byte, error)
}

// GainersSource reads the market gainers list.
type GainersSource struct {
	Client Fetcher
}

func (s GainersSource) Load(ctx context.Context) ([]types.Symbol, error) {
	body, err := s.Client.Get(ctx, iex.ListGainers, "")
	if err != nil {
		return nil, err
	}
	return parse.SymbolList(body)
}
