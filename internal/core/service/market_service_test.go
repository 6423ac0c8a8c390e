package service

import (
	"context"
	"errors"
	"testing"

	"github.com/finscope/estimates-api/internal/core/domain"
)

type stubProvider struct {
	err error
}

func (p *stubProvider) FetchQuote(_ context.Context, ticker string) (*domain.Quote, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.Quote{Symbol: ticker, RegularMarketPrice: 10}, nil
}

func (p *stubProvider) FetchAnalyst(context.Context, string) (*domain.AnalystSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.AnalystSnapshot{RecommendationMean: 2}, nil
}

func (p *stubProvider) FetchEarnings(context.Context, string) (*domain.PeriodEstimates, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.PeriodEstimates{}, nil
}

func (p *stubProvider) FetchRevenue(context.Context, string) (*domain.PeriodEstimates, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.PeriodEstimates{}, nil
}

func (p *stubProvider) FetchGrowth(context.Context, string) (*domain.GrowthEstimates, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.GrowthEstimates{}, nil
}

func (p *stubProvider) Search(context.Context, string) ([]domain.SearchResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []domain.SearchResult{{Symbol: "AAPL"}}, nil
}

func TestMarketService_PassesThrough(t *testing.T) {
	svc := NewMarketService(&stubProvider{}, discardLogger)

	q, err := svc.FetchQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}
	if q.Symbol != "AAPL" || q.RegularMarketPrice != 10 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestMarketService_WrapsFailures(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewMarketService(&stubProvider{err: cause}, discardLogger)
	ctx := context.Background()

	calls := map[string]func() error{
		"quote":    func() error { _, err := svc.FetchQuote(ctx, "AAPL"); return err },
		"analyst":  func() error { _, err := svc.FetchAnalyst(ctx, "AAPL"); return err },
		"earnings": func() error { _, err := svc.FetchEarnings(ctx, "AAPL"); return err },
		"revenue":  func() error { _, err := svc.FetchRevenue(ctx, "AAPL"); return err },
		"growth":   func() error { _, err := svc.FetchGrowth(ctx, "AAPL"); return err },
		"search":   func() error { _, err := svc.Search(ctx, "app"); return err },
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			err := call()
			if !errors.Is(err, domain.ErrUpstreamFailure) {
				t.Fatalf("expected ErrUpstreamFailure, got %v", err)
			}
			if !errors.Is(err, cause) {
				t.Fatalf("expected cause to be preserved, got %v", err)
			}
			var upErr *domain.UpstreamError
			if !errors.As(err, &upErr) || upErr.Op != op {
				t.Fatalf("expected UpstreamError with op %q, got %v", op, err)
			}
		})
	}
}
