package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opendirectory/resource-directory/internal/api/metrics"
	"github.com/opendirectory/resource-directory/internal/auth"
	"github.com/opendirectory/resource-directory/internal/core/domain"
)

// CookieName is the HTTP-only cookie carrying the credential. The bearer
// header and the cookie are accepted interchangeably.
const CookieName = "directory_token"

// TokenVerifier validates a credential and extracts its claims.
// Kept as a small interface so tests can fake it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLoader resolves a verified subject id to the full user record.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator populates the current user on the request context from a
// bearer credential. Verification is pure; the single store round-trip is
// the identity load. Neither mode ever writes to the store.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLoader
	log    zerolog.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserLoader, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// Require rejects the request unless a valid credential resolves to an
// existing user. Any failure (missing, expired or tampered credential, or a
// subject that no longer exists) halts the chain before the handler with the
// same generic unauthenticated response; the sub-reason is logged and counted
// but never exposed.
func (a *Authenticator) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, reason := a.resolve(c)
			if user == nil {
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				a.log.Debug().
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("authentication failed")
				return domain.ErrUnauthenticated
			}
			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// Optional runs the same extract/verify/load pipeline but treats every
// failure as an anonymous request: the current user is simply left unset.
// Used by endpoints that behave differently for anonymous callers, such as
// login and the registration bootstrap.
func (a *Authenticator) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, _ := a.resolve(c); user != nil {
				SetCurrentUser(c, user)
			}
			return next(c)
		}
	}
}

// resolve extracts, verifies and loads the caller's identity. It returns the
// user or a nil user plus the failure reason.
func (a *Authenticator) resolve(c echo.Context) (*domain.User, string) {
	token := extractToken(c)
	if token == "" {
		return nil, "missing_credential"
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, "expired"
		case errors.Is(err, auth.ErrTokenMalformed):
			return nil, "malformed"
		default:
			return nil, "signature"
		}
	}

	user, err := a.users.FindByID(c.Request().Context(), claims.UserID())
	if err != nil {
		// A credential can outlive its account; a deleted subject downgrades
		// to unauthenticated rather than surfacing a store error.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "subject_not_found"
		}
		return nil, "load_failed"
	}
	return user, ""
}

// extractToken reads the credential from the Authorization header or, failing
// that, the session cookie. Both transports are accepted transparently.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// SetTokenCookie attaches the issued credential as an HTTP-only session
// cookie alongside whatever the handler returns in the body.
func SetTokenCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
