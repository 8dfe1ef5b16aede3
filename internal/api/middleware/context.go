package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// Per-request context slots. Each request carries at most one current user
// and at most one loaded entity per kind; everything is discarded when the
// request ends.
const currentUserKey = "auth.currentUser"

// Entity kinds, used both as loader context keys and as audit/metric labels.
const (
	KindUser     = "user"
	KindResource = "resource"
	KindLocation = "location"
	KindCategory = "category"
	KindProvider = "provider"
)

// SetCurrentUser attaches the authenticated user to the request context.
func SetCurrentUser(c echo.Context, user *domain.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated user, if any. Absence means the
// request is anonymous.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(currentUserKey).(*domain.User)
	return user, ok && user != nil
}

// SetEntity attaches a loaded entity of the given kind to the request context.
func SetEntity[T any](c echo.Context, kind string, entity *T) {
	c.Set(entityKey(kind), entity)
}

// Entity returns the loaded entity of the given kind, if the loader ran.
func Entity[T any](c echo.Context, kind string) (*T, bool) {
	entity, ok := c.Get(entityKey(kind)).(*T)
	return entity, ok && entity != nil
}

func entityKey(kind string) string {
	return "load." + kind
}
