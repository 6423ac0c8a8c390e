package ports

import (
	"context"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	// Create assigns the next sequential id and stores the user. It returns
	// domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Sequence hands out monotonically increasing ids that are never reused.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}
