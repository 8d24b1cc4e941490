// Package handler serves the back office HTTP API on top of the stores.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/events"
	mid "github.com/raisama21/ims/internal/middleware"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/jwtutil"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds the stores every endpoint works through
type Handler struct {
	db  *gorm.DB
	jwt *jwtutil.JWTUtil

	auth       *store.AuthStore
	categories *store.CategoryStore
	products   *store.ProductStore
	customers  *store.CustomerStore
	users      *store.UserStore
	orders     *store.OrderStore
	tracking   *store.TrackingStore
	reports    *store.ReportStore
}

// New wires the stores on db. publisher may be nil when no event bus is
// configured.
func New(db *gorm.DB, j *jwtutil.JWTUtil, publisher events.Publisher) *Handler {
	return &Handler{
		db:         db,
		jwt:        j,
		auth:       store.NewAuthStore(db),
		categories: store.NewCategoryStore(db),
		products:   store.NewProductStore(db),
		customers:  store.NewCustomerStore(db),
		users:      store.NewUserStore(db),
		orders:     store.NewOrderStore(db, publisher),
		tracking:   store.NewTrackingStore(db, publisher),
		reports:    store.NewReportStore(db),
	}
}

// tenant returns the caller resolved by AuthMiddleware
func tenant(c echo.Context) mid.Tenant {
	t, _ := mid.GetTenant(c)
	return t
}

// pathID parses the :id path parameter. A malformed id cannot name a
// record, so it is reported as not found.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", c.Param("id"), store.ErrNotFound)
	}
	return id, nil
}

func badRequest(c echo.Context, err error) error {
	logger.FromEcho(c).Warn("Invalid request data", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
}

// respondError writes the HTTP response for a store error
func respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var validation *store.ValidationError
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "validation failed",
			"fields": validation.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.As(err, &conflict):
		body := echo.Map{"error": conflict.Error()}
		if conflict.Field != "" {
			body["fields"] = map[string]string{conflict.Field: conflict.Error()}
		}
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrUnknownTrackingStatus):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"status": "status must be processing, shipped or delivered"},
		})
	case errors.Is(err, store.ErrAdminDelete):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrBadLogin):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		log.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, please try again"})
	}
}
