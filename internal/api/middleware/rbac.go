package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// RequireRole enforces role-based access control using the role privilege
// ordering. It must run after Require; a request that somehow reaches it
// without a current user is rejected as unauthenticated, never allowed
// through. The forbidden response carries no more detail than its status.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !user.Role.AtLeast(min) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
