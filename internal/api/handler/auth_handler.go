package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.RealIP(),
	})
	metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrRateLimited):
		return "locked"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_request"
	default:
		return "error"
	}
}
