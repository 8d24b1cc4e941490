package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) ListCustomers(c echo.Context) error {
	customers, err := h.customers.List(c.Request().Context(), tenant(c).GroupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.customers.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer stores the customer and its address together
func (h *Handler) CreateCustomer(c echo.Context) error {
	var req store.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	customer, err := h.customers.Create(c.Request().Context(), tenant(c).GroupID, req)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Customer created", zap.String("customer_id", customer.ID.String()))
	return c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req store.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	customer, err := h.customers.Update(c.Request().Context(), tenant(c).GroupID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.customers.Delete(c.Request().Context(), tenant(c).GroupID, id); err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Customer deleted", zap.String("customer_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}
