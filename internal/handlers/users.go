package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/transport"
	"github.com/Skotchmaster/webshop/internal/util"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.register")

	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UsersHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_user")

	id, err := parseID(c, l, "get_user_failed")
	if err != nil {
		return err
	}
	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_users")

	page, offset, limit := paging(c)
	total, users, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(users, page, offset, limit, total))
}

func (h *UsersHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_user")

	id, err := parseID(c, l, "user_update_error")
	if err != nil {
		return err
	}
	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "user_update_error", err)
	}

	user, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		return fail(l, "user_update_error", err)
	}
	l.Info("user_update_success", "user_id", id)
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete_user")

	id, err := parseID(c, l, "user_delete_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return fail(l, "user_delete_error", err)
	}
	l.Info("user_delete_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
