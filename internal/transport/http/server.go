package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/webshop/internal/metrics"
	loggingmw "github.com/Skotchmaster/webshop/internal/middleware/logging"
)

// NewEcho builds the echo instance with the shared middleware chain. Recover sits inside
// the request logger so a panic is logged and answered with a plain 500.
func NewEcho(logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(m.Middleware())
	return e
}
