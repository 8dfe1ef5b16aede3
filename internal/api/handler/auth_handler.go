package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opendirectory/resource-directory/internal/api/metrics"
	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
)

// AuthHandler serves login, session checks and registration.
type AuthHandler struct {
	authService ports.AuthService
	tokenTTL    time.Duration
}

func NewAuthHandler(authService ports.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" validate:"omitempty,oneof=standard owner"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type loggedInResponse struct {
	Status bool         `json:"status"`
	User   *domain.User `json:"user,omitempty"`
}

// Login authenticates a user and issues a credential.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.Inc()
	middleware.SetTokenCookie(c, token, int(h.tokenTTL.Seconds()))
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// IsLoggedIn reports whether the request carries a valid credential.
//
// @Summary      Check login status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loggedInResponse
// @Router       /api/users/isLoggedIn [post]
func (h *AuthHandler) IsLoggedIn(c echo.Context) error {
	user := optionalUser(c)
	return c.JSON(http.StatusOK, loggedInResponse{Status: user != nil, User: user})
}

// Register creates a new user account and issues a credential for it.
// Anonymous registration is permitted only while the store is empty; the
// account created then becomes the first owner. Otherwise the caller must be
// an authenticated owner.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := optionalUser(c)
	user, token, err := h.authService.Register(c.Request().Context(), actor, ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	mode := "owner"
	if actor == nil {
		mode = "bootstrap"
	}
	metrics.RegistrationsTotal.WithLabelValues(mode).Inc()

	middleware.SetTokenCookie(c, token, int(h.tokenTTL.Seconds()))
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}
