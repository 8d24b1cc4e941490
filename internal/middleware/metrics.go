package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/prometheus"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// write the error response now so the recorded status is final
			c.Error(err)
		}

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))

		return nil
	}
}
