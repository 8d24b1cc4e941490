package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request with an id and a logger carrying it
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		c.Set("request_id", requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		setLogger(c, log)

		return next(c)
	}
}

// setLogger stores log on the echo context and on the request context so
// stores reached through c.Request().Context() log with the same fields
func setLogger(c echo.Context, log *zap.Logger) {
	c.Set("logger", log)
	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), log)))
}
