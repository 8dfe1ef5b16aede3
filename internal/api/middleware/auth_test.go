package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opendirectory/resource-directory/internal/auth"
	"github.com/opendirectory/resource-directory/internal/core/domain"
)

type stubUserLoader struct {
	users map[string]*domain.User
	calls int
}

func (s *stubUserLoader) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.calls++
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthenticator(ttl time.Duration, users ...*domain.User) (*Authenticator, *auth.Manager, *stubUserLoader) {
	tokens := auth.NewManager("secret", ttl)
	loader := &stubUserLoader{users: make(map[string]*domain.User)}
	for _, u := range users {
		loader.users[u.ID] = u
	}
	return NewAuthenticator(tokens, loader, zerolog.Nop()), tokens, loader
}

func newTestContext(t *testing.T, decorate func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequire_ValidHeaderCredential(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleOwner}
	a, tokens, _ := newTestAuthenticator(time.Hour, user)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, rec := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})

	called := false
	handler := a.Require()(func(c echo.Context) error {
		called = true
		got, ok := CurrentUser(c)
		if !ok {
			t.Fatalf("current user not attached")
		}
		if got.ID != user.ID {
			t.Fatalf("wrong user attached: %q", got.ID)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequire_ValidCookieCredential(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleStandard}
	a, tokens, _ := newTestAuthenticator(time.Hour, user)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})

	handler := a.Require()(func(c echo.Context) error {
		if got, ok := CurrentUser(c); !ok || got.ID != "u1" {
			t.Fatalf("cookie credential did not attach user")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequire_MissingCredential(t *testing.T) {
	a, _, loader := newTestAuthenticator(time.Hour)

	c, _ := newTestContext(t, nil)
	handler := a.Require()(func(c echo.Context) error {
		t.Fatalf("handler must not run")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("identity load must not happen without a credential")
	}
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("no user may be attached on failure")
	}
}

func TestRequire_ExpiredCredential(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleOwner}
	a, tokens, loader := newTestAuthenticator(-time.Minute, user)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})

	handler := a.Require()(func(c echo.Context) error {
		t.Fatalf("handler must not run with an expired credential")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("identity load must not happen for a failed credential")
	}
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("no user may be attached on failure")
	}
}

func TestRequire_TamperedCredential(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleOwner}
	a, _, _ := newTestAuthenticator(time.Hour, user)

	other := auth.NewManager("other-secret", time.Hour)
	token, err := other.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})

	handler := a.Require()(func(c echo.Context) error {
		t.Fatalf("handler must not run with a tampered credential")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequire_SubjectDeletedAfterIssuance(t *testing.T) {
	user := &domain.User{ID: "gone", Role: domain.RoleStandard}
	a, tokens, _ := newTestAuthenticator(time.Hour) // loader knows nobody

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})

	handler := a.Require()(func(c echo.Context) error {
		t.Fatalf("handler must not run when the subject no longer exists")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestOptional_AnonymousContinues(t *testing.T) {
	a, _, _ := newTestAuthenticator(time.Hour)

	c, rec := newTestContext(t, nil)
	handler := a.Optional()(func(c echo.Context) error {
		if _, ok := CurrentUser(c); ok {
			t.Fatalf("anonymous request must not carry a user")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("optional mode must never fail: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOptional_InvalidCredentialContinuesAnonymously(t *testing.T) {
	a, _, _ := newTestAuthenticator(time.Hour)

	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	})

	handler := a.Optional()(func(c echo.Context) error {
		if _, ok := CurrentUser(c); ok {
			t.Fatalf("invalid credential must leave the user unset")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("optional mode must never fail: %v", err)
	}
}

func TestOptional_ValidCredentialAttachesUser(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleStandard}
	a, tokens, _ := newTestAuthenticator(time.Hour, user)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})

	handler := a.Optional()(func(c echo.Context) error {
		if got, ok := CurrentUser(c); !ok || got.ID != "u1" {
			t.Fatalf("valid credential must attach the user")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestExtractToken_MalformedHeaderDoesNotFallBackToCookie(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleStandard}
	a, tokens, _ := newTestAuthenticator(time.Hour, user)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// A present-but-malformed Authorization header is a failure, even with a
	// valid cookie alongside.
	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Token "+token)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})

	handler := a.Require()(func(c echo.Context) error {
		t.Fatalf("handler must not run")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
