package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// EntityHandler is the shared CRUD handler for directory document kinds
// (resources, locations, categories, providers). Reads are public; the
// router puts authentication plus owner-role middleware in front of every
// mutating route, so by the time a mutation reaches this handler the policy
// decision has already been made.
type EntityHandler[T any] struct {
	kind     string
	notFound error
	service  ports.DirectoryService[T]
}

func NewEntityHandler[T any](kind string, notFound error, service ports.DirectoryService[T]) *EntityHandler[T] {
	return &EntityHandler[T]{kind: kind, notFound: notFound, service: service}
}

// List returns all documents of the kind. Public.
//
// @Summary      List directory entities of one kind
// @Tags         directory
// @Produce      json
// @Success      200  {array}   object
// @Router       /api/{kind} [get]
func (h *EntityHandler[T]) List(c echo.Context) error {
	entities, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entities)
}

// Read returns the document loaded by the id-param middleware. Public.
//
// @Summary      Read a directory entity by id
// @Tags         directory
// @Produce      json
// @Param        id   path      string  true  "Entity id"
// @Success      200  {object}  object
// @Failure      404  {object}  map[string]string
// @Router       /api/{kind}/{id} [get]
func (h *EntityHandler[T]) Read(c echo.Context) error {
	entity, ok := middleware.Entity[T](c, h.kind)
	if !ok {
		return h.notFound
	}
	return c.JSON(http.StatusOK, entity)
}

// Create inserts a new document.
//
// @Summary      Create a directory entity
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Entity fields"
// @Success      201   {object}  object
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/{kind} [post]
func (h *EntityHandler[T]) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var entity T
	if err := c.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), actor, &entity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update replaces the mutable fields of the loaded document.
//
// @Summary      Update a directory entity
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Entity id"
// @Param        body  body      object  true  "Entity fields"
// @Success      200   {object}  object
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/{kind}/{id} [post]
func (h *EntityHandler[T]) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if _, ok := middleware.Entity[T](c, h.kind); !ok {
		return h.notFound
	}

	var entity T
	if err := c.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), &entity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes the loaded document.
//
// @Summary      Delete a directory entity
// @Tags         directory
// @Security     BearerAuth
// @Param        id  path  string  true  "Entity id"
// @Success      204  "deleted"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/{kind}/{id} [delete]
func (h *EntityHandler[T]) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if _, ok := middleware.Entity[T](c, h.kind); !ok {
		return h.notFound
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
