package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mauryavansham-service/internal/handler"
	"mauryavansham-service/internal/middleware"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/cache"
	"mauryavansham-service/pkg/config"
	"mauryavansham-service/pkg/database"
	"mauryavansham-service/pkg/delivery"
	"mauryavansham-service/pkg/jwtutil"
	"mauryavansham-service/pkg/logger"
	"mauryavansham-service/pkg/metrics"
	"mauryavansham-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "mauryavansham-service"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting mauryavansham service...", cfg.LogConfig()...)

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	prometheus.InitMetrics(cfg)
	httpMetrics := metrics.NewHTTPMetrics(serviceName)
	log.Info("Prometheus metrics initialized")

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	redisClient := cache.NewRedis(cfg.Redis)
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx); err != nil {
			// the profile cache is optional; run without it
			log.Warn("Redis unavailable, profile cache disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
		cancel()
	}

	mailer, texter := newSenders(cfg, log)
	queue := delivery.NewQueue(cfg.Delivery.QueueSize, cfg.Delivery.Workers, cfg.Delivery.SendTimeout, log)
	queue.Start()

	notifications := service.NewNotificationService(db, queue, mailer, texter, log)
	h := &handler.Handler{
		Users:         service.NewUserService(db, jwt, log),
		Profiles:      service.NewProfileService(db, redisClient, cfg.Redis.ProfileTTL, log),
		Interests:     service.NewInterestService(db, notifications, log),
		Notifications: notifications,
		Businesses:    service.NewBusinessService(db, notifications, log),
		Ads:           service.NewAdService(db, log),
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(httpMetrics.Middleware())
	e.Use(logger.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	h.Routes(e, jwt)

	go func() {
		port := cfg.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	// pending emails go out before the process exits
	queue.Close()

	if err := redisClient.Close(); err != nil {
		log.Warn("Failed to close redis", zap.Error(err))
	}
	log.Info("Server stopped")
}

// newSenders builds the SES and SNS senders. When a channel is switched off
// or AWS cannot be configured, the sender is built disabled.
func newSenders(cfg *config.Config, log *zap.Logger) (*delivery.Mailer, *delivery.Texter) {
	if !cfg.AWS.EmailEnabled && !cfg.AWS.SMSEnabled {
		log.Info("Email and SMS delivery disabled")
		return delivery.NewMailer(nil, cfg.AWS.FromEmail, false), delivery.NewTexter(nil, cfg.AWS.SMSCountryCode, false)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sesClient, snsClient, err := delivery.NewAWSClients(ctx, cfg.AWS.Region)
	if err != nil {
		log.Error("AWS configuration failed, email and SMS disabled", zap.Error(err))
		return delivery.NewMailer(nil, cfg.AWS.FromEmail, false), delivery.NewTexter(nil, cfg.AWS.SMSCountryCode, false)
	}

	log.Info("AWS delivery configured",
		zap.String("region", cfg.AWS.Region),
		zap.Bool("email", cfg.AWS.EmailEnabled),
		zap.Bool("sms", cfg.AWS.SMSEnabled))
	return delivery.NewMailer(sesClient, cfg.AWS.FromEmail, cfg.AWS.EmailEnabled),
		delivery.NewTexter(snsClient, cfg.AWS.SMSCountryCode, cfg.AWS.SMSEnabled)
}
