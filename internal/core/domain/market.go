package domain

import (
	"errors"
	"fmt"
)

var ErrUpstreamFailure = errors.New("upstream failure")

// UpstreamError wraps a failure returned by the market-data provider.
type UpstreamError struct {
	Op     string
	Ticker string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("market data %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("market data %s %s: %v", e.Op, e.Ticker, e.Err)
}

// Is lets errors.Is match both ErrUpstreamFailure and the wrapped cause.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Quote is the raw price snapshot returned by the provider.
type Quote struct {
	Symbol                     string
	ShortName                  string
	LongName                   string
	RegularMarketPrice         float64
	RegularMarketChange        float64
	RegularMarketChangePercent float64
	RegularMarketDayHigh       float64
	RegularMarketDayLow        float64
	RegularMarketVolume        int64
	TrailingPE                 float64
	MarketCap                  int64
}

// RecommendationTrend counts analyst opinions by bucket.
type RecommendationTrend struct {
	StrongBuy  int
	Buy        int
	Hold       int
	Sell       int
	StrongSell int
}

// AnalystSnapshot is the raw analyst consensus returned by the provider.
type AnalystSnapshot struct {
	TargetHighPrice         float64
	TargetLowPrice          float64
	TargetMeanPrice         float64
	TargetMedianPrice       float64
	CurrentPrice            float64
	RecommendationMean      float64
	RecommendationKey       string
	NumberOfAnalystOpinions int
	Trend                   RecommendationTrend
}

// PeriodEstimate is the consensus for one earnings or revenue horizon.
type PeriodEstimate struct {
	Label         string
	YahooEstimate float64
	LowEstimate   float64
	HighEstimate  float64
	YearAgo       float64
}

// PeriodEstimates is the consensus earnings or revenue table for a ticker.
type PeriodEstimates struct {
	CurrentQtr  PeriodEstimate
	NextQtr     PeriodEstimate
	CurrentYear PeriodEstimate
	NextYear    PeriodEstimate
}

// GrowthPeriod is a single growth-rate horizon.
type GrowthPeriod struct {
	Label    string
	Estimate float64
}

// GrowthEstimates is the consensus growth table for a ticker.
type GrowthEstimates struct {
	CurrentQtr  GrowthPeriod
	NextQtr     GrowthPeriod
	CurrentYear GrowthPeriod
	NextYear    GrowthPeriod
	Next5Years  GrowthPeriod
	Past5Years  GrowthPeriod
}

// SearchResult is a single symbol match.
type SearchResult struct {
	Symbol    string
	ShortName string
	LongName  string
	ExchDisp  string
	TypeDisp  string
}
