package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
	"github.com/finscope/estimates-api/internal/pkg/metrics"
)

type estimateService struct {
	repo  ports.EstimateRepository
	guard ports.OwnershipGuard
	audit ports.AuditLog
	now   func() time.Time
	log   zerolog.Logger
}

// NewEstimateService returns an EstimateService that scopes every read and
// write to the authenticated actor.
func NewEstimateService(
	repo ports.EstimateRepository,
	guard ports.OwnershipGuard,
	audit ports.AuditLog,
	log zerolog.Logger,
) ports.EstimateService {
	return &estimateService{
		repo:  repo,
		guard: guard,
		audit: audit,
		now:   time.Now,
		log:   log,
	}
}

// Get returns the actor's own estimate for (kind, ticker).
func (s *estimateService) Get(ctx context.Context, actor *domain.User, kind domain.EstimateKind, ticker string) (*domain.EstimateRecord, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	rec, err := s.repo.Get(ctx, kind, ticker, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get %s estimate: %w", kind, err)
	}
	if rec == nil {
		return nil, &domain.EstimateNotFoundError{Kind: kind}
	}
	return rec, nil
}

// Save upserts an estimate after checking ownership and the period key set.
func (s *estimateService) Save(ctx context.Context, actor *domain.User, in ports.SaveEstimateInput) (*domain.EstimateRecord, error) {
	// 1. Ownership, before the payload is inspected.
	if err := s.guard.AuthorizeOwner(actor, in.UserID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.EstimatesRejectedTotal.WithLabelValues(string(in.Kind), "forbidden").Inc()
			s.log.Warn().
				Int64("actor_id", actor.ID).
				Int64("target_user_id", in.UserID).
				Str("ticker", in.Ticker).
				Str("kind", string(in.Kind)).
				Msg("estimate write for another user rejected")
		}
		return nil, err
	}

	// 2. Closed period key set for the kind.
	if err := domain.ValidatePeriods(in.Kind, in.Periods); err != nil {
		metrics.EstimatesRejectedTotal.WithLabelValues(string(in.Kind), "invalid_periods").Inc()
		return nil, err
	}

	// 3. Atomic replace-or-insert.
	rec, err := s.repo.Upsert(ctx, in.Kind, in.Ticker, in.UserID, in.Periods.Clone(), s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("save %s estimate: %w", in.Kind, err)
	}
	metrics.EstimatesSavedTotal.WithLabelValues(string(in.Kind)).Inc()

	// 4. Audit trail (non-fatal on failure).
	entry := domain.AuditEntry{
		UserID:  in.UserID,
		Action:  in.Kind.AuditAction(),
		Kind:    in.Kind,
		Ticker:  in.Ticker,
		Periods: rec.Periods.Clone(),
		At:      rec.UpdatedAt,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Int64("user_id", in.UserID).Str("ticker", in.Ticker).Msg("failed to record audit entry")
	}

	s.log.Info().
		Int64("user_id", in.UserID).
		Str("ticker", in.Ticker).
		Str("kind", string(in.Kind)).
		Msg("estimate saved")

	return rec, nil
}
