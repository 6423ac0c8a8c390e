package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/finscope/estimates-api/internal/api/middleware"
	"github.com/finscope/estimates-api/internal/core/domain"
)

// ctxUser returns the user injected by the Auth middleware. A missing user
// means the route was registered without the middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user in context: %w", domain.ErrUnauthorized)
	}
	return user, nil
}
