package ports

import (
	"context"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// SaveEstimateInput is the DTO passed from the transport layer to EstimateService.
type SaveEstimateInput struct {
	Kind    domain.EstimateKind
	Ticker  string
	UserID  int64
	Periods domain.Periods
}

// EstimateService defines the ownership-scoped operations on estimates.
// The actor is always the user resolved from the access token.
type EstimateService interface {
	Get(ctx context.Context, actor *domain.User, kind domain.EstimateKind, ticker string) (*domain.EstimateRecord, error)
	Save(ctx context.Context, actor *domain.User, input SaveEstimateInput) (*domain.EstimateRecord, error)
}
