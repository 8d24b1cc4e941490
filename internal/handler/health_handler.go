package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

// Health reports whether the database answers
func (h *Handler) Health(c echo.Context) error {
	if err := database.Ping(c.Request().Context(), h.db); err != nil {
		logger.FromEcho(c).Error("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
