package ports

import (
	"context"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// AuthService is the credential store plus token issuance used by the transport layer.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// OwnershipGuard decides whether an authenticated user may act on a target user's data.
type OwnershipGuard interface {
	AuthorizeOwner(user *domain.User, targetUserID int64) error
}
