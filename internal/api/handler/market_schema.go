package handler

// stockDataResponse is the body of GET /api/stock/{ticker}.
type stockDataResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

type recommendationTrendsResponse struct {
	StrongBuy    int `json:"strongBuy"`
	Buy          int `json:"buy"`
	Hold         int `json:"hold"`
	Underperform int `json:"underperform"`
	Sell         int `json:"sell"`
}

// analystDataResponse is the body of GET /api/stock/{ticker}/analyst.
type analystDataResponse struct {
	RecommendationMean   float64                      `json:"recommendationMean"`
	RecommendationTrends recommendationTrendsResponse `json:"recommendationTrends"`
	TargetLow            float64                      `json:"targetLow"`
	TargetMean           float64                      `json:"targetMean"`
	TargetHigh           float64                      `json:"targetHigh"`
	TargetMedian         float64                      `json:"targetMedian"`
	CurrentPrice         float64                      `json:"currentPrice"`
}

type periodResponse struct {
	Label         string  `json:"label"`
	YahooEstimate float64 `json:"yahooEstimate"`
	LowEstimate   float64 `json:"lowEstimate"`
	HighEstimate  float64 `json:"highEstimate"`
	YearAgo       float64 `json:"yearAgo"`
}

// periodEstimatesResponse is the body of the earnings and revenue endpoints.
type periodEstimatesResponse struct {
	CurrentQtr  periodResponse `json:"currentQtr"`
	NextQtr     periodResponse `json:"nextQtr"`
	CurrentYear periodResponse `json:"currentYear"`
	NextYear    periodResponse `json:"nextYear"`
}

type growthPeriodResponse struct {
	Label    string  `json:"label"`
	Estimate float64 `json:"estimate"`
}

// growthEstimatesResponse is the body of GET /api/stock/{ticker}/growth.
type growthEstimatesResponse struct {
	CurrentQtr  growthPeriodResponse `json:"currentQtr"`
	NextQtr     growthPeriodResponse `json:"nextQtr"`
	CurrentYear growthPeriodResponse `json:"currentYear"`
	NextYear    growthPeriodResponse `json:"nextYear"`
	Next5Years  growthPeriodResponse `json:"next5Years"`
	Past5Years  growthPeriodResponse `json:"past5Years"`
}

type searchResultResponse struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname,omitempty"`
	ExchDisp  string `json:"exchDisp"`
	TypeDisp  string `json:"typeDisp"`
}
