package middleware

import (
	"mauryavansham-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		}

		// Add request ID to response header
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
		setLogger(c, ctxLogger)

		return next(c)
	}
}

// setLogger stores l on the echo context and on the request context, so
// services called with c.Request().Context() log with the same fields.
func setLogger(c echo.Context, l *zap.Logger) {
	c.Set("logger", l)
	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), l)))
}
