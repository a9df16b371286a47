package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/middleware/auth"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/util"
)

const msgBadID = "ID needs to be of GUID format."

func parseID(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 400, "reason", "id is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, msgBadID)
	}
	return id, nil
}

func paging(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrTokenEmpty):
		return http.StatusUnauthorized, auth.MsgEmpty
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, auth.MsgExpired
	case errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, auth.MsgInvalid
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, service.ErrAlreadyInvalidated):
		return http.StatusBadRequest, "token already invalidated"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusBadRequest, "user no longer exists"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, service.ErrSearchDisabled):
		return http.StatusServiceUnavailable, "search is disabled"
	}
	code := repo.StatusFromError(err)
	return code, http.StatusText(code)
}

// fail logs err under event and converts it to the HTTP error the client sees.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}
