package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// UserHandler serves the user management endpoints.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" validate:"omitempty,oneof=standard owner"`
}

// List returns all user accounts.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users/list [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Read returns the user loaded by the id-param middleware.
//
// @Summary      Read a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Read(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	target, ok := middleware.Entity[domain.User](c, middleware.KindUser)
	if !ok {
		return domain.ErrUserNotFound
	}
	return c.JSON(http.StatusOK, target)
}

// Update edits a user account. Without an id the caller edits their own
// profile; with an id, editing anyone else requires owner role.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             false  "Target user id (defaults to self)"
// @Param        body  body      updateUserRequest  true   "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/update/{id} [post]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The loader ran only on the id-bearing route; absence means self-update.
	targetID := ""
	if target, ok := middleware.Entity[domain.User](c, middleware.KindUser); ok {
		targetID = target.ID
	}

	updated, err := h.userService.Update(c.Request().Context(), actor, targetID, ports.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a user account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204  "deleted"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/delete/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	target, ok := middleware.Entity[domain.User](c, middleware.KindUser)
	if !ok {
		return domain.ErrUserNotFound
	}

	if err := h.userService.Delete(c.Request().Context(), actor, target.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
