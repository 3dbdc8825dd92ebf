package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mauryavansham-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		cfg := &config.Config{ServiceName: "svc", Server: config.ServerConfig{Env: env}, Log: config.LogConfig{Level: "debug"}}
		require.NoError(t, InitLogger(cfg))
		assert.NotNil(t, GetLogger())
	}
}

func TestFromContext_Precedence(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctxLogger := zap.NewNop().Named("ctx")
	req = req.WithContext(WithLogger(req.Context(), ctxLogger))
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Same(t, ctxLogger, FromContext(c))

	echoLogger := zap.NewNop().Named("echo")
	c.Set("logger", echoLogger)
	assert.Same(t, echoLogger, FromContext(c))
}

func TestFromStdContext_Fallback(t *testing.T) {
	fallback := zap.NewNop()
	assert.Same(t, fallback, FromStdContext(context.Background(), fallback))

	l := zap.NewNop()
	assert.Same(t, l, FromStdContext(WithLogger(context.Background(), l), fallback))
	assert.NotNil(t, FromStdContext(context.Background(), nil))
}

func TestMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", zap.New(core))
			return next(c)
		}
	})
	e.Use(Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusTeapot, "x") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, int64(http.StatusTeapot), entry.ContextMap()["status"])
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, levelOf("warn"))
	assert.Equal(t, zapcore.DebugLevel, levelOf("DEBUG"))
	assert.Equal(t, zapcore.InfoLevel, levelOf("verbose"))
	assert.Equal(t, zapcore.InfoLevel, levelOf(""))
}
