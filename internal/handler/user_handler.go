package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

// ListUsers supports a ?role= filter
func (h *Handler) ListUsers(c echo.Context) error {
	role := model.Role(c.QueryParam("role"))
	users, err := h.users.List(c.Request().Context(), tenant(c).GroupID, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.Get(c.Request().Context(), tenant(c).GroupID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req store.UserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.users.Create(c.Request().Context(), tenant(c).GroupID, req)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req store.UserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.users.Update(c.Request().Context(), tenant(c).GroupID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser refuses to delete admins
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.users.Delete(c.Request().Context(), tenant(c).GroupID, id); err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("User deleted", zap.String("user_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}
