package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/middleware/auth"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}

	tok, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_successful")
	return c.JSON(http.StatusOK, tok)
}

// Refresh exchanges the refresh token in the Authorization header for a new pair.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	tok, err := h.Svc.Refresh(ctx, auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
	if err != nil {
		return fail(l, "refresh_error", err)
	}

	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, tok)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.LogOut(ctx, auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))); err != nil {
		return fail(l, "logout_error", err)
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}
