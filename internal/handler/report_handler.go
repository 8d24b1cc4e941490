package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/store"
)

const dateLayout = "2006-01-02"

// Dashboard returns the landing page summary of the caller's business
func (h *Handler) Dashboard(c echo.Context) error {
	dash, err := h.reports.Dashboard(c.Request().Context(), tenant(c).GroupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dash)
}

// SalesReport lists sales between ?from= and ?to= (YYYY-MM-DD, both
// inclusive). Without dates it covers the current month up to today.
func (h *Handler) SalesReport(c echo.Context) error {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	fields := map[string]string{}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			fields["from"] = "date must be YYYY-MM-DD"
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			fields["to"] = "date must be YYYY-MM-DD"
		}
		to = t
	}
	if len(fields) > 0 {
		return respondError(c, &store.ValidationError{Fields: fields})
	}

	// to names a whole day
	end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	report, err := h.reports.Sales(c.Request().Context(), tenant(c).GroupID, from, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
