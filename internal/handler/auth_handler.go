package handler

import (
	"net/http"

	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates a pending account
func (h *Handler) RegisterUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	user, err := h.Users.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Registration received. Your account is awaiting approval.", user)
}

// Login authenticates an approved user and returns a token
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	token, user, err := h.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", echo.Map{"token": token, "user": user})
}
