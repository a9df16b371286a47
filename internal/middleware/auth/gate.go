package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/metrics"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/tokens"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxStatus   = "auth_status"

	bearerPrefix = "Bearer "
)

const (
	MsgExpired   = "Your token has expired. Please login again, or refresh your token."
	MsgInvalid   = "Your token is invalid. Please login again, or refresh your token."
	MsgEmpty     = "This request requires a bearer token in the Authorization header."
	MsgForbidden = "You do not have permission to perform this action."
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*tokens.Claims, models.ErrorStatus)
}

// Gate verifies the bearer token once per request and lets each route demand a role.
type Gate struct {
	Auth    Authenticator
	Metrics *metrics.Metrics
}

func NewGate(a Authenticator, m *metrics.Metrics) *Gate {
	return &Gate{Auth: a, Metrics: m}
}

// BearerToken strips a leading "Bearer " from the header value. Without the prefix the raw value is used.
func BearerToken(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	if strings.HasPrefix(header, bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	return header
}

// Authenticate never rejects a request. It records either the caller identity or
// the reason there is none, for Require to act on.
func (g *Gate) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

		claims, status := g.Auth.Authenticate(c.Request().Context(), token)
		if status != models.StatusNone {
			c.Set(ctxStatus, status)
			return next(c)
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)

		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("user_id", claims.UserID, "role", claims.Role)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		return next(c)
	}
}

// Require admits callers whose role satisfies min.
func (g *Gate) Require(min models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("gate", string(min))

			switch Status(c) {
			case models.StatusExpired:
				l.Warn("gate_denied", "status", 401, "reason", "token expired")
				g.Metrics.GateOutcome(string(min), "expired")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgExpired)
			case models.StatusInvalid:
				l.Warn("gate_denied", "status", 401, "reason", "token invalid")
				g.Metrics.GateOutcome(string(min), "invalid")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalid)
			case models.StatusEmpty:
				l.Warn("gate_denied", "status", 401, "reason", "no token")
				g.Metrics.GateOutcome(string(min), "empty")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgEmpty)
			}

			role, ok := Role(c)
			if !ok {
				l.Warn("gate_denied", "status", 401, "reason", "no identity in context")
				g.Metrics.GateOutcome(string(min), "empty")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgEmpty)
			}
			if !Allows(min, role) {
				l.Warn("gate_denied", "status", 403, "reason", "insufficient role", "role", role)
				g.Metrics.GateOutcome(string(min), "forbidden")
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}

			g.Metrics.GateOutcome(string(min), "allowed")
			return next(c)
		}
	}
}

// Allows is the role truth table: the admin gate needs admin, the user gate takes user or admin.
func Allows(required, actual models.Role) bool {
	switch required {
	case models.RoleAdmin:
		return actual == models.RoleAdmin
	case models.RoleUser:
		return actual == models.RoleUser || actual == models.RoleAdmin
	default:
		return false
	}
}

func Status(c echo.Context) models.ErrorStatus {
	s, _ := c.Get(ctxStatus).(models.ErrorStatus)
	return s
}

func Role(c echo.Context) (models.Role, bool) {
	r, ok := c.Get(ctxRole).(models.Role)
	return r, ok
}

func UserID(c echo.Context) (uuid.UUID, bool) {
	s, ok := c.Get(ctxUserID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

func Username(c echo.Context) string {
	s, _ := c.Get(ctxUsername).(string)
	return s
}
