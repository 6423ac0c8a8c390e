package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// EstimateHandler serves the per-user estimate overrides. One handler value
// backs all three kinds; the kind is fixed when the route is registered.
type EstimateHandler struct {
	service ports.EstimateService
}

func NewEstimateHandler(service ports.EstimateService) *EstimateHandler {
	return &EstimateHandler{service: service}
}

// saveEstimateRequest is the body of POST /api/estimates/{ticker}/{kind}.
// The path ticker is authoritative; a body ticker, when sent, must match it.
type saveEstimateRequest struct {
	Ticker  string              `json:"ticker"`
	UserID  int64               `json:"userId"  validate:"required,gt=0"`
	Periods map[string]*float64 `json:"periods" validate:"required"`
}

// periods rejects null values, which would otherwise decode as zero.
func (r saveEstimateRequest) periods() (domain.Periods, error) {
	var null []string
	out := make(domain.Periods, len(r.Periods))
	for k, v := range r.Periods {
		if v == nil {
			null = append(null, k)
			continue
		}
		out[k] = *v
	}
	if len(null) > 0 {
		sort.Strings(null)
		return nil, echo.NewHTTPError(http.StatusBadRequest, "periods must be numbers: "+strings.Join(null, ", "))
	}
	return out, nil
}

// Save returns the handler for POST /api/estimates/:ticker/<kind>.
//
// @Summary      Save a user estimate
// @Description  Replaces the caller's estimate for the ticker. userId must be the caller's own id.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ticker  path      string               true  "Ticker symbol"
// @Param        kind    path      string               true  "earnings, revenue or growth"
// @Param        body    body      saveEstimateRequest  true  "Estimate"
// @Success      200     {object}  domain.EstimateRecord
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/estimates/{ticker}/{kind} [post]
func (h *EstimateHandler) Save(kind domain.EstimateKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := ctxUser(c)
		if err != nil {
			return err
		}

		ticker := c.Param("ticker")

		var req saveEstimateRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if req.Ticker != "" && req.Ticker != ticker {
			return echo.NewHTTPError(http.StatusBadRequest, "ticker in body does not match path")
		}
		if strings.TrimSpace(ticker) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "ticker is required")
		}
		periods, err := req.periods()
		if err != nil {
			return err
		}

		rec, err := h.service.Save(c.Request().Context(), user, ports.SaveEstimateInput{
			Kind:    kind,
			Ticker:  ticker,
			UserID:  req.UserID,
			Periods: periods,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rec)
	}
}

// Get returns the handler for GET /api/estimates/:ticker/<kind>.
//
// @Summary      Get the caller's estimate
// @Tags         estimates
// @Produce      json
// @Security     BearerAuth
// @Param        ticker  path      string  true  "Ticker symbol"
// @Param        kind    path      string  true  "earnings, revenue or growth"
// @Success      200     {object}  domain.EstimateRecord
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/estimates/{ticker}/{kind} [get]
func (h *EstimateHandler) Get(kind domain.EstimateKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := ctxUser(c)
		if err != nil {
			return err
		}

		rec, err := h.service.Get(c.Request().Context(), user, kind, c.Param("ticker"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rec)
	}
}
