package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"go.uber.org/zap"
)

// Capability names a group of actions gated on the caller's role
type Capability string

const (
	// CapManageUsers covers listing, creating, editing and deleting users
	CapManageUsers Capability = "admin-only"
	// CapMutateCatalog covers every write to categories, products,
	// customers and orders, and order tracking
	CapMutateCatalog Capability = "not-sales-person"
)

// Allows reports whether role holds need
func Allows(role model.Role, need Capability) bool {
	switch need {
	case CapManageUsers:
		return role == model.RoleAdmin
	case CapMutateCatalog:
		return role.Valid() && role != model.RoleSalesPerson
	}
	return false
}

// Require rejects with 403 any session whose role lacks need. It must run
// after AuthMiddleware.
func Require(need Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenant, ok := GetTenant(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !Allows(tenant.Role, need) {
				prometheus.RecordAuthError("forbidden")
				logger.FromEcho(c).Warn("Capability denied",
					zap.String("role", string(tenant.Role)),
					zap.String("capability", string(need)),
					zap.String("path", c.Path()))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not allowed to perform this action"})
			}
			return next(c)
		}
	}
}
