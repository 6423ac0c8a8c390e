package ports

import (
	"context"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// MarketDataProvider is the read-only source of reference market data.
type MarketDataProvider interface {
	FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error)
	FetchAnalyst(ctx context.Context, ticker string) (*domain.AnalystSnapshot, error)
	FetchEarnings(ctx context.Context, ticker string) (*domain.PeriodEstimates, error)
	FetchRevenue(ctx context.Context, ticker string) (*domain.PeriodEstimates, error)
	FetchGrowth(ctx context.Context, ticker string) (*domain.GrowthEstimates, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// DependencyProbe is a named connectivity check used by the readiness endpoint.
type DependencyProbe struct {
	Name string
	Ping func(ctx context.Context) error
}
