package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/domain"
)

type stubDirectoryService struct {
	entities map[string]*domain.Resource
}

func newStubDirectoryService() *stubDirectoryService {
	return &stubDirectoryService{entities: make(map[string]*domain.Resource)}
}

func (s *stubDirectoryService) List(_ context.Context) ([]domain.Resource, error) {
	out := make([]domain.Resource, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubDirectoryService) Get(_ context.Context, id string) (*domain.Resource, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *stubDirectoryService) Create(_ context.Context, _ *domain.User, entity *domain.Resource) (*domain.Resource, error) {
	clone := *entity
	clone.ID = "res-1"
	s.entities[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *stubDirectoryService) Update(_ context.Context, _ *domain.User, id string, entity *domain.Resource) (*domain.Resource, error) {
	if _, ok := s.entities[id]; !ok {
		return nil, domain.ErrResourceNotFound
	}
	clone := *entity
	clone.ID = id
	s.entities[id] = &clone
	out := clone
	return &out, nil
}

func (s *stubDirectoryService) Delete(_ context.Context, _ *domain.User, id string) error {
	if _, ok := s.entities[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(s.entities, id)
	return nil
}

func newEntityContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEntityHandler_Create_Created(t *testing.T) {
	svc := newStubDirectoryService()
	h := NewEntityHandler[domain.Resource](middleware.KindResource, domain.ErrResourceNotFound, svc)

	c, rec := newEntityContext(t, http.MethodPost, "/api/resources", `{"name":"Food Bank"}`)
	middleware.SetCurrentUser(c, &domain.User{ID: "user-1", Role: domain.RoleOwner})

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "res-1" || resp["name"] != "Food Bank" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestEntityHandler_Read_ReturnsLoadedEntity(t *testing.T) {
	svc := newStubDirectoryService()
	h := NewEntityHandler[domain.Resource](middleware.KindResource, domain.ErrResourceNotFound, svc)

	c, rec := newEntityContext(t, http.MethodGet, "/api/resources/res-1", "")
	middleware.SetEntity(c, middleware.KindResource, &domain.Resource{ID: "res-1", Name: "Shelter"})

	if err := h.Read(c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Shelter") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestEntityHandler_Delete_NoContent(t *testing.T) {
	svc := newStubDirectoryService()
	owner := &domain.User{ID: "user-1", Role: domain.RoleOwner}

	created, err := svc.Create(context.Background(), owner, &domain.Resource{Name: "Clinic"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewEntityHandler[domain.Resource](middleware.KindResource, domain.ErrResourceNotFound, svc)

	c, rec := newEntityContext(t, http.MethodDelete, "/api/resources/"+created.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	middleware.SetCurrentUser(c, owner)
	middleware.SetEntity(c, middleware.KindResource, created)

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %s", rec.Body.String())
	}
}
