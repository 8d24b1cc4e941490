package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/jwtutil"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"go.uber.org/zap"
)

// Signup registers a business with its admin and logs the admin in
func (h *Handler) Signup(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.SignupCounter.Inc()

	var req store.SignupInput
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	group, admin, err := h.auth.Signup(c.Request().Context(), req)
	if err != nil {
		log.Warn("Signup rejected", zap.Error(err))
		return respondError(c, err)
	}

	if err := h.startSession(c, admin); err != nil {
		return respondError(c, err)
	}

	log.Info("Business signed up",
		zap.String("group_id", group.ID.String()),
		zap.String("user_id", admin.ID.String()))
	return c.JSON(http.StatusCreated, echo.Map{
		"group": group,
		"user":  admin,
	})
}

// Login checks the credentials and sets the auth cookie
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req store.LoginInput
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	user, err := h.auth.Authenticate(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrBadLogin) {
			prometheus.RecordAuthError("invalid_credentials")
			log.Warn("Login failed", zap.String("business_name", req.BusinessName))
		}
		return respondError(c, err)
	}

	if err := h.startSession(c, user); err != nil {
		return respondError(c, err)
	}

	log.Info("User logged in",
		zap.String("group_id", user.GroupID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, user)
}

// Logout drops the auth cookie
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.jwt.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *Handler) startSession(c echo.Context, user *model.User) error {
	cookie, err := h.jwt.NewCookie(jwtutil.Session{
		UserID:  user.ID,
		GroupID: user.GroupID,
		Role:    string(user.Role),
	})
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}
