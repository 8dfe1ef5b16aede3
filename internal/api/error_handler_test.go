package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opendirectory/resource-directory/internal/api/handler"
	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/auth"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

type stubUserLoader struct {
	users map[string]*domain.User
	calls int
}

func (l *stubUserLoader) FindByID(_ context.Context, id string) (*domain.User, error) {
	l.calls++
	u, ok := l.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type countingUserService struct {
	listCalls int
}

func (s *countingUserService) List(_ context.Context, actor *domain.User) ([]domain.User, error) {
	s.listCalls++
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.CanListUsers(actor.Role) {
		return nil, domain.ErrForbidden
	}
	return []domain.User{*actor}, nil
}

func (s *countingUserService) Get(_ context.Context, _ *domain.User, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *countingUserService) Update(_ context.Context, _ *domain.User, _ string, _ ports.UpdateUserInput) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *countingUserService) Delete(_ context.Context, _ *domain.User, _ string) error {
	return domain.ErrUserNotFound
}

// newListUsersServer wires the real middleware chain and error handler in
// front of the user listing endpoint, the way the router does.
func newListUsersServer(tokens *auth.Manager, loader *stubUserLoader, svc *countingUserService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	authn := middleware.NewAuthenticator(tokens, loader, zerolog.Nop())
	h := handler.NewUserHandler(svc)
	e.GET("/api/users/list", h.List, authn.Require(), middleware.RequireRole(domain.RoleOwner))
	return e
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return resp["error"]
}

func TestListUsers_ExpiredCredential(t *testing.T) {
	owner := &domain.User{ID: "user-1", Role: domain.RoleOwner}
	loader := &stubUserLoader{users: map[string]*domain.User{"user-1": owner}}
	svc := &countingUserService{}

	issuer := auth.NewManager("secret", -time.Minute)
	expired, err := issuer.Issue(owner)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := newListUsersServer(auth.NewManager("secret", time.Hour), loader, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/list", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body != "not authenticated" {
		t.Fatalf("expected generic body, got %q", body)
	}
	if svc.listCalls != 0 {
		t.Fatalf("expected handler never to reach the service, got %d calls", svc.listCalls)
	}
	if loader.calls != 0 {
		t.Fatalf("expected no identity load for an expired credential, got %d", loader.calls)
	}
}

func TestListUsers_MissingCredential(t *testing.T) {
	loader := &stubUserLoader{users: map[string]*domain.User{}}
	svc := &countingUserService{}
	e := newListUsersServer(auth.NewManager("secret", time.Hour), loader, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/list", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body != "not authenticated" {
		t.Fatalf("expected generic body, got %q", body)
	}
	if svc.listCalls != 0 {
		t.Fatalf("expected handler never to reach the service, got %d calls", svc.listCalls)
	}
}

func TestListUsers_StandardRoleForbidden(t *testing.T) {
	member := &domain.User{ID: "user-2", Role: domain.RoleStandard}
	loader := &stubUserLoader{users: map[string]*domain.User{"user-2": member}}
	svc := &countingUserService{}

	tokens := auth.NewManager("secret", time.Hour)
	token, err := tokens.Issue(member)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := newListUsersServer(tokens, loader, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/list", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body != "access forbidden" {
		t.Fatalf("expected generic body, got %q", body)
	}
	if svc.listCalls != 0 {
		t.Fatalf("expected role check to halt before the service, got %d calls", svc.listCalls)
	}
}

func TestListUsers_OwnerViaCookie(t *testing.T) {
	owner := &domain.User{ID: "user-1", Role: domain.RoleOwner}
	loader := &stubUserLoader{users: map[string]*domain.User{"user-1": owner}}
	svc := &countingUserService{}

	tokens := auth.NewManager("secret", time.Hour)
	token, err := tokens.Issue(owner)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := newListUsersServer(tokens, loader, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/list", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.listCalls != 1 {
		t.Fatalf("expected one service call, got %d", svc.listCalls)
	}
	if !strings.Contains(rec.Body.String(), "user-1") {
		t.Fatalf("expected listing body, got %s", rec.Body.String())
	}
}

func TestErrorHandler_UserExistsConflict(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(echo.Context) error { return domain.ErrUserExists })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body != "email already registered" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(echo.Context) error { return context.DeadlineExceeded })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body != "internal server error" {
		t.Fatalf("unexpected body: %q", body)
	}
}
