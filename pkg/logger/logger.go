package logger

import (
	"time"

	"mauryavansham-service/pkg/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// levelOf reads LOG_LEVEL; anything unrecognised logs at info
func levelOf(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// InitLogger builds the process logger. Production emits JSON with
// ISO8601 timestamps, any other environment gets the colored console format.
func InitLogger(cfg *config.Config) error {
	var zc zap.Config
	if cfg.Server.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(levelOf(cfg.Log.Level))

	built, err := zc.Build(zap.Fields(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Server.Env),
	))
	if err != nil {
		return err
	}

	log = built
	zap.ReplaceGlobals(log)
	return nil
}

// GetLogger returns the process logger. Before InitLogger it hands out
// zap.L(), which is a no-op logger unless someone replaced the globals.
func GetLogger() *zap.Logger {
	if log != nil {
		return log
	}
	return zap.L()
}

// Middleware writes one access line per request through the request logger
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			began := time.Now()
			err := next(c)

			req := c.Request()
			FromContext(c).Info("HTTP Request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(began)),
				zap.String("ip", c.RealIP()),
			)
			return err
		}
	}
}
