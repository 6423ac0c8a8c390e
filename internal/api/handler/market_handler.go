package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/finscope/estimates-api/internal/core/ports"
)

// MarketHandler serves read-only reference market data. No authentication.
type MarketHandler struct {
	provider ports.MarketDataProvider
}

func NewMarketHandler(provider ports.MarketDataProvider) *MarketHandler {
	return &MarketHandler{provider: provider}
}

// Quote handles GET /api/stock/:ticker.
//
// @Summary      Stock quote
// @Tags         market
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol"
// @Success      200     {object}  stockDataResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stock/{ticker} [get]
func (h *MarketHandler) Quote(c echo.Context) error {
	q, err := h.provider.FetchQuote(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStockData(q))
}

// Analyst handles GET /api/stock/:ticker/analyst.
//
// @Summary      Analyst consensus
// @Tags         market
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol"
// @Success      200     {object}  analystDataResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stock/{ticker}/analyst [get]
func (h *MarketHandler) Analyst(c echo.Context) error {
	a, err := h.provider.FetchAnalyst(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalystData(a))
}

// Earnings handles GET /api/stock/:ticker/earnings.
//
// @Summary      Consensus earnings estimates
// @Tags         market
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol"
// @Success      200     {object}  periodEstimatesResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stock/{ticker}/earnings [get]
func (h *MarketHandler) Earnings(c echo.Context) error {
	e, err := h.provider.FetchEarnings(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPeriodEstimates(e))
}

// Revenue handles GET /api/stock/:ticker/revenue.
//
// @Summary      Consensus revenue estimates
// @Tags         market
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol"
// @Success      200     {object}  periodEstimatesResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stock/{ticker}/revenue [get]
func (h *MarketHandler) Revenue(c echo.Context) error {
	r, err := h.provider.FetchRevenue(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPeriodEstimates(r))
}

// Growth handles GET /api/stock/:ticker/growth.
//
// @Summary      Consensus growth estimates
// @Tags         market
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol"
// @Success      200     {object}  growthEstimatesResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stock/{ticker}/growth [get]
func (h *MarketHandler) Growth(c echo.Context) error {
	g, err := h.provider.FetchGrowth(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrowthEstimates(g))
}

// Search handles GET /api/search?query=.
//
// @Summary      Symbol search
// @Tags         market
// @Produce      json
// @Param        query  query     string  true  "Ticker or company name"
// @Success      200    {array}   searchResultResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/search [get]
func (h *MarketHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query is required")
	}

	results, err := h.provider.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSearchResults(results))
}
