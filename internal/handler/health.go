package handler

import (
	"net/http"

	"mauryavansham-service/pkg/database"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Hello is a simple handler that returns a welcome message
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Mauryavansham API is running",
		"version": "1.0.0",
	})
}

// Health reports whether the database answers
func Health(c echo.Context) error {
	if err := database.Ping(); err != nil {
		logger.FromContext(c).Warn("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "database": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "up"})
}
