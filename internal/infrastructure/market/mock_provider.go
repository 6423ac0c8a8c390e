// Package market provides market-data providers.
package market

import (
	"context"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// MockProvider serves fixed reference data for every ticker. It fails only
// when the caller's context is already done.
type MockProvider struct{}

var _ ports.MarketDataProvider = MockProvider{}

func NewMockProvider() MockProvider {
	return MockProvider{}
}

func (MockProvider) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.Quote{
		Symbol:                     ticker,
		ShortName:                  ticker + " Inc.",
		LongName:                   ticker + " Corporation",
		RegularMarketPrice:         150.25,
		RegularMarketChange:        2.75,
		RegularMarketChangePercent: 1.86,
		RegularMarketDayHigh:       152.5,
		RegularMarketDayLow:        149.0,
		RegularMarketVolume:        3_500_000,
		TrailingPE:                 25.6,
		MarketCap:                  2_500_000_000,
	}, nil
}

func (MockProvider) FetchAnalyst(ctx context.Context, _ string) (*domain.AnalystSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.AnalystSnapshot{
		TargetHighPrice:         180.0,
		TargetLowPrice:          120.0,
		TargetMeanPrice:         165.0,
		TargetMedianPrice:       167.5,
		RecommendationMean:      2.3,
		RecommendationKey:       "buy",
		NumberOfAnalystOpinions: 28,
		Trend: domain.RecommendationTrend{
			StrongBuy:  8,
			Buy:        12,
			Hold:       6,
			Sell:       2,
			StrongSell: 0,
		},
	}, nil
}

const (
	labelCurrentQtr  = "Current Quarter (Q3 2023)"
	labelNextQtr     = "Next Quarter (Q4 2023)"
	labelCurrentYear = "Current Year (2023)"
	labelNextYear    = "Next Year (2024)"
)

func (MockProvider) FetchEarnings(ctx context.Context, _ string) (*domain.PeriodEstimates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.PeriodEstimates{
		CurrentQtr:  domain.PeriodEstimate{Label: labelCurrentQtr, YahooEstimate: 2.35, LowEstimate: 2.12, HighEstimate: 2.58, YearAgo: 2.10},
		NextQtr:     domain.PeriodEstimate{Label: labelNextQtr, YahooEstimate: 2.45, LowEstimate: 2.25, HighEstimate: 2.65, YearAgo: 2.20},
		CurrentYear: domain.PeriodEstimate{Label: labelCurrentYear, YahooEstimate: 9.25, LowEstimate: 8.75, HighEstimate: 9.95, YearAgo: 8.50},
		NextYear:    domain.PeriodEstimate{Label: labelNextYear, YahooEstimate: 10.50, LowEstimate: 9.75, HighEstimate: 11.25, YearAgo: 9.25},
	}, nil
}

func (MockProvider) FetchRevenue(ctx context.Context, _ string) (*domain.PeriodEstimates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.PeriodEstimates{
		CurrentQtr:  domain.PeriodEstimate{Label: labelCurrentQtr, YahooEstimate: 15.2e9, LowEstimate: 14.8e9, HighEstimate: 15.7e9, YearAgo: 14.1e9},
		NextQtr:     domain.PeriodEstimate{Label: labelNextQtr, YahooEstimate: 16.4e9, LowEstimate: 15.9e9, HighEstimate: 16.9e9, YearAgo: 15.1e9},
		CurrentYear: domain.PeriodEstimate{Label: labelCurrentYear, YahooEstimate: 58.5e9, LowEstimate: 57.2e9, HighEstimate: 59.8e9, YearAgo: 53.8e9},
		NextYear:    domain.PeriodEstimate{Label: labelNextYear, YahooEstimate: 65.3e9, LowEstimate: 63.1e9, HighEstimate: 67.5e9, YearAgo: 58.5e9},
	}, nil
}

func (MockProvider) FetchGrowth(ctx context.Context, _ string) (*domain.GrowthEstimates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.GrowthEstimates{
		CurrentQtr:  domain.GrowthPeriod{Label: labelCurrentQtr, Estimate: 8.5},
		NextQtr:     domain.GrowthPeriod{Label: labelNextQtr, Estimate: 9.2},
		CurrentYear: domain.GrowthPeriod{Label: labelCurrentYear, Estimate: 8.8},
		NextYear:    domain.GrowthPeriod{Label: labelNextYear, Estimate: 11.5},
		Next5Years:  domain.GrowthPeriod{Label: "Next 5 Years (per annum)", Estimate: 12.8},
		Past5Years:  domain.GrowthPeriod{Label: "Past 5 Years (per annum)", Estimate: 9.7},
	}, nil
}

// Search returns the same handful of NASDAQ equities for any query.
func (MockProvider) Search(ctx context.Context, _ string) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []domain.SearchResult{
		{Symbol: "AAPL", ShortName: "Apple Inc.", LongName: "Apple Inc.", ExchDisp: "NASDAQ", TypeDisp: "Equity"},
		{Symbol: "AMZN", ShortName: "Amazon.com, Inc.", LongName: "Amazon.com, Inc.", ExchDisp: "NASDAQ", TypeDisp: "Equity"},
		{Symbol: "MSFT", ShortName: "Microsoft Corporation", LongName: "Microsoft Corporation", ExchDisp: "NASDAQ", TypeDisp: "Equity"},
	}, nil
}
