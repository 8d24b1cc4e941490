package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context(), tenant(c).GroupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns the order with customer, address, line items and tracking
func (h *Handler) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orders.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CreateOrder places an order after checking its totals against the catalog
func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	var req store.OrderInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.orders.Create(c.Request().Context(), tenant(c).GroupID, req)
	if err != nil {
		log.Warn("Order rejected", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderPayment edits payment method, payment id and payment status
func (h *Handler) UpdateOrderPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req store.PaymentInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.orders.UpdatePayment(c.Request().Context(), tenant(c).GroupID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orders.Delete(c.Request().Context(), tenant(c).GroupID, id); err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Order deleted", zap.String("order_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetTracking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	tracking, err := h.tracking.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tracking)
}

// AdvanceTracking moves the order to ?status=, which must be the next stage
func (h *Handler) AdvanceTracking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	target, err := model.ParseTrackingStatus(c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}

	tracking, err := h.tracking.Advance(c.Request().Context(), tenant(c).GroupID, id, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tracking)
}
