package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, actor, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func newAuthTestServer(stub *stubAuthService) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAuthHandler(stub, time.Hour)
	e.POST("/api/users/register", h.Register)
	e.POST("/api/users/login", h.Login)
	e.POST("/api/users/isLoggedIn", h.IsLoggedIn)
	return e
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.CookieName {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_Bootstrap(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, string, error) {
			if actor != nil {
				t.Fatalf("expected anonymous actor, got %+v", actor)
			}
			if in.Email != "first@example.com" {
				t.Fatalf("unexpected email: %s", in.Email)
			}
			return &domain.User{ID: "user-1", Email: in.Email, Role: domain.RoleOwner}, "token123", nil
		},
	}
	e := newAuthTestServer(stub)

	body := strings.NewReader(`{"email":"first@example.com","password":"s3cretpass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in body, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "owner" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if cookie.Value != "token123" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, *domain.User, ports.RegisterInput) (*domain.User, string, error) {
			t.Fatalf("service should not be called")
			return nil, "", nil
		},
	}
	e := newAuthTestServer(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_AcceptsAnyPasswordLength(t *testing.T) {
	// Password strength is not policed at the edge; the one-character
	// bootstrap registration must go through.
	stub := &stubAuthService{
		registerFn: func(_ context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, string, error) {
			if actor != nil {
				t.Fatalf("expected anonymous actor, got %+v", actor)
			}
			if in.Password != "p" {
				t.Fatalf("unexpected password: %q", in.Password)
			}
			return &domain.User{ID: "user-1", Email: in.Email, Role: domain.RoleOwner}, "token789", nil
		},
	}
	e := newAuthTestServer(stub)

	body := strings.NewReader(`{"email":"a@x.com","password":"p"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if cookie := sessionCookie(rec); cookie == nil || cookie.Value != "token789" {
		t.Fatalf("expected credential cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, string, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "user-1", Email: email, Role: domain.RoleStandard}, "token456", nil
		},
	}
	e := newAuthTestServer(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token456" {
		t.Fatalf("expected token, got %v", resp["token"])
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "token456" {
		t.Fatalf("expected session cookie with token, got %+v", cookie)
	}
}

func TestAuthHandler_IsLoggedIn_Anonymous(t *testing.T) {
	e := newAuthTestServer(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/isLoggedIn", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != false {
		t.Fatalf("expected status false, got %v", resp["status"])
	}
}
