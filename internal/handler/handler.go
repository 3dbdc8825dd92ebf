// Package handler exposes the service layer over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler holds the services the routes call into
type Handler struct {
	Users         *service.UserService
	Profiles      *service.ProfileService
	Interests     *service.InterestService
	Notifications *service.NotificationService
	Businesses    *service.BusinessService
	Ads           *service.AdService
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// respondError writes err with the status its taxonomy maps to. Internal
// causes are logged and never returned to the client.
func respondError(c echo.Context, err error) error {
	status := apperrors.HTTPStatus(err)
	log := logger.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Info("Request rejected", zap.Int("status", status), zap.String("reason", err.Error()))
	}

	body := echo.Map{"success": false, "message": apperrors.PublicMessage(err)}
	if fields := apperrors.FieldErrors(err); len(fields) > 0 {
		body["errors"] = fields
	}
	return c.JSON(status, body)
}

// currentUser returns the user id set by AuthMiddleware
func currentUser(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok && id != 0
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid " + name)
	}
	return uint(id), nil
}

func parsePage(c echo.Context) service.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return service.Page{Page: page, Limit: limit}.Normalize()
}

func unauthenticated(c echo.Context) error {
	logger.FromContext(c).Error("Failed to get user ID from context")
	return fail(c, http.StatusUnauthorized, "authentication required")
}
