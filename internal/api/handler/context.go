package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// currentUser extracts the user attached by the authentication middleware.
// Handlers behind Require() call this before any service call; an absent
// user means the middleware did not run, and the handler body must not
// proceed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// optionalUser is currentUser for routes behind Optional(): absence simply
// means the caller is anonymous.
func optionalUser(c echo.Context) *domain.User {
	user, _ := middleware.CurrentUser(c)
	return user
}
