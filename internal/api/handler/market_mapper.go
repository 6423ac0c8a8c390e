package handler

import (
	"github.com/finscope/estimates-api/internal/core/domain"
)

// --- Provider data → response ---

func toStockData(q *domain.Quote) stockDataResponse {
	return stockDataResponse{
		Symbol:        q.Symbol,
		Name:          q.ShortName,
		Price:         q.RegularMarketPrice,
		Change:        q.RegularMarketChange,
		ChangePercent: q.RegularMarketChangePercent,
	}
}

// toAnalystData folds the provider's five buckets into the client's labels:
// the provider's sell becomes underperform and strongSell becomes sell.
func toAnalystData(a *domain.AnalystSnapshot) analystDataResponse {
	return analystDataResponse{
		RecommendationMean: a.RecommendationMean,
		RecommendationTrends: recommendationTrendsResponse{
			StrongBuy:    a.Trend.StrongBuy,
			Buy:          a.Trend.Buy,
			Hold:         a.Trend.Hold,
			Underperform: a.Trend.Sell,
			Sell:         a.Trend.StrongSell,
		},
		TargetLow:    a.TargetLowPrice,
		TargetMean:   a.TargetMeanPrice,
		TargetHigh:   a.TargetHighPrice,
		TargetMedian: a.TargetMedianPrice,
		CurrentPrice: a.CurrentPrice,
	}
}

func toPeriod(p domain.PeriodEstimate) periodResponse {
	return periodResponse{
		Label:         p.Label,
		YahooEstimate: p.YahooEstimate,
		LowEstimate:   p.LowEstimate,
		HighEstimate:  p.HighEstimate,
		YearAgo:       p.YearAgo,
	}
}

func toPeriodEstimates(e *domain.PeriodEstimates) periodEstimatesResponse {
	return periodEstimatesResponse{
		CurrentQtr:  toPeriod(e.CurrentQtr),
		NextQtr:     toPeriod(e.NextQtr),
		CurrentYear: toPeriod(e.CurrentYear),
		NextYear:    toPeriod(e.NextYear),
	}
}

func toGrowthPeriod(p domain.GrowthPeriod) growthPeriodResponse {
	return growthPeriodResponse{Label: p.Label, Estimate: p.Estimate}
}

func toGrowthEstimates(g *domain.GrowthEstimates) growthEstimatesResponse {
	return growthEstimatesResponse{
		CurrentQtr:  toGrowthPeriod(g.CurrentQtr),
		NextQtr:     toGrowthPeriod(g.NextQtr),
		CurrentYear: toGrowthPeriod(g.CurrentYear),
		NextYear:    toGrowthPeriod(g.NextYear),
		Next5Years:  toGrowthPeriod(g.Next5Years),
		Past5Years:  toGrowthPeriod(g.Past5Years),
	}
}

func toSearchResults(results []domain.SearchResult) []searchResultResponse {
	out := make([]searchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, searchResultResponse{
			Symbol:    r.Symbol,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			ExchDisp:  r.ExchDisp,
			TypeDisp:  r.TypeDisp,
		})
	}
	return out
}
