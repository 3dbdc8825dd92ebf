package middleware

import (
	"net/http"
	"strings"

	"mauryavansham-service/internal/model"
	"mauryavansham-service/pkg/jwtutil"
	"mauryavansham-service/pkg/logger"
	"mauryavansham-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the JWT token and extracts claims
func AuthMiddleware(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			prometheus.AuthAttemptsCounter.Inc()

			tokenString := c.Request().Header.Get(echo.HeaderAuthorization)
			if tokenString == "" {
				log.Warn("Missing authorization token")
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "authentication required"})
			}

			// Remove "Bearer " prefix if present
			if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
				tokenString = tokenString[7:]
			}

			claims, err := jwt.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid token", zap.Error(err))
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			prometheus.AuthSuccessCounter.Inc()

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("name", claims.Name)
			c.Set("role", claims.Role)

			log = log.With(
				zap.Uint("user_id", claims.UserID),
				zap.String("role", claims.Role),
			)
			setLogger(c, log)

			return next(c)
		}
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleAdmin {
			logger.FromContext(c).Warn("Admin route denied", zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "admin access required"})
		}
		return next(c)
	}
}
