package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/jwtutil"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"go.uber.org/zap"
)

const tenantKey = "tenant"

// Tenant is the caller every /dashboard handler acts for
type Tenant struct {
	UserID  uuid.UUID
	GroupID uuid.UUID
	Role    model.Role
}

// Members looks up the current state of a session's user
type Members interface {
	Get(ctx context.Context, groupID, id uuid.UUID) (*model.User, error)
}

// AuthMiddleware resolves the tenant from the auth cookie. The user is
// re-read on every request, so a deleted user loses access and a changed
// role applies immediately. Requests without a valid session are
// rejected with 401 before reaching a handler.
func AuthMiddleware(j *jwtutil.JWTUtil, members Members) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			session, err := j.SessionFromRequest(c.Request())
			if err != nil {
				if errors.Is(err, jwtutil.ErrNoSession) {
					prometheus.RecordAuthError("missing_session")
					log.Debug("Request without session cookie")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				}
				prometheus.RecordAuthError("invalid_session")
				log.Warn("Invalid session cookie", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
			}

			user, err := members.Get(c.Request().Context(), session.GroupID, session.UserID)
			if errors.Is(err, store.ErrNotFound) {
				prometheus.RecordAuthError("unknown_user")
				log.Warn("Session user no longer exists",
					zap.String("group_id", session.GroupID.String()),
					zap.String("user_id", session.UserID.String()))
				c.SetCookie(j.ClearCookie())
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
			}
			if err != nil {
				log.Error("Failed to resolve session user", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, please try again"})
			}

			if string(user.Role) != session.Role {
				log.Info("Session role is stale",
					zap.String("session_role", session.Role),
					zap.String("role", string(user.Role)))
			}

			c.Set(tenantKey, Tenant{UserID: user.ID, GroupID: user.GroupID, Role: user.Role})
			setLogger(c, log.With(
				zap.String("group_id", user.GroupID.String()),
				zap.String("user_id", user.ID.String()),
			))

			return next(c)
		}
	}
}

// GetTenant returns the tenant stored by AuthMiddleware
func GetTenant(c echo.Context) (Tenant, bool) {
	t, ok := c.Get(tenantKey).(Tenant)
	return t, ok
}
