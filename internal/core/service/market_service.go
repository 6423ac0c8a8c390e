package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
	"github.com/finscope/estimates-api/internal/pkg/metrics"
)

// MarketService wraps a MarketDataProvider so that every failure surfaces as a
// *domain.UpstreamError. Calls are never retried.
type MarketService struct {
	provider ports.MarketDataProvider
	log      zerolog.Logger
}

var _ ports.MarketDataProvider = (*MarketService)(nil)

func NewMarketService(provider ports.MarketDataProvider, log zerolog.Logger) *MarketService {
	return &MarketService{provider: provider, log: log}
}

func (s *MarketService) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	defer observe("quote")()
	q, err := s.provider.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, s.upstream("quote", ticker, err)
	}
	return q, nil
}

func (s *MarketService) FetchAnalyst(ctx context.Context, ticker string) (*domain.AnalystSnapshot, error) {
	defer observe("analyst")()
	a, err := s.provider.FetchAnalyst(ctx, ticker)
	if err != nil {
		return nil, s.upstream("analyst", ticker, err)
	}
	return a, nil
}

func (s *MarketService) FetchEarnings(ctx context.Context, ticker string) (*domain.PeriodEstimates, error) {
	defer observe("earnings")()
	e, err := s.provider.FetchEarnings(ctx, ticker)
	if err != nil {
		return nil, s.upstream("earnings", ticker, err)
	}
	return e, nil
}

func (s *MarketService) FetchRevenue(ctx context.Context, ticker string) (*domain.PeriodEstimates, error) {
	defer observe("revenue")()
	r, err := s.provider.FetchRevenue(ctx, ticker)
	if err != nil {
		return nil, s.upstream("revenue", ticker, err)
	}
	return r, nil
}

func (s *MarketService) FetchGrowth(ctx context.Context, ticker string) (*domain.GrowthEstimates, error) {
	defer observe("growth")()
	g, err := s.provider.FetchGrowth(ctx, ticker)
	if err != nil {
		return nil, s.upstream("growth", ticker, err)
	}
	return g, nil
}

func (s *MarketService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	defer observe("search")()
	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, s.upstream("search", "", err)
	}
	return results, nil
}

func (s *MarketService) upstream(op, ticker string, err error) error {
	metrics.UpstreamFailuresTotal.WithLabelValues(op).Inc()
	s.log.Error().Err(err).Str("op", op).Str("ticker", ticker).Msg("market data fetch failed")
	return &domain.UpstreamError{Op: op, Ticker: ticker, Err: err}
}

func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
