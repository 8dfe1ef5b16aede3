package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/metrics"
)

// Finder resolves an id to a stored entity. Implementations return their
// kind's not-found sentinel for malformed or unresolvable ids.
type Finder[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
}

// LoadEntity resolves the :id path parameter to a stored entity of the given
// kind and attaches it to the request context before the handler runs. The
// chain halts with the finder's not-found error when the id does not resolve;
// nothing is ever partially attached.
//
// This stage is identity-agnostic: it never consults the current user, so it
// composes with the authentication middleware in either order.
func LoadEntity[T any](kind string, finder Finder[T]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			entity, err := finder.FindByID(c.Request().Context(), c.Param("id"))
			if err != nil {
				metrics.EntityLoadsTotal.WithLabelValues(kind, "miss").Inc()
				return err
			}
			metrics.EntityLoadsTotal.WithLabelValues(kind, "hit").Inc()
			SetEntity(c, kind, entity)
			return next(c)
		}
	}
}
