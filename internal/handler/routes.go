package handler

import (
	"mauryavansham-service/internal/middleware"
	"mauryavansham-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// Routes mounts every route on e
func (h *Handler) Routes(e *echo.Echo, jwt *jwtutil.JWTUtil) {
	e.GET("/", Hello)
	e.GET("/health", Health)

	auth := e.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(jwt))

	api.GET("/allProfiles/:userId", h.ListOwnProfiles)

	interests := api.Group("/profile-interest")
	interests.POST("/:receiverProfileId/interests", h.ExpressInterest)
	interests.GET("/received", h.ListReceivedInterests)
	interests.GET("/sent", h.ListSentInterests)
	interests.PATCH("/interests/:id", h.RespondToInterest)

	profiles := api.Group("/profiles")
	profiles.GET("", h.BrowseProfiles)
	profiles.POST("", h.CreateProfile)
	profiles.POST("/validate-step", h.ValidateProfileStep)
	profiles.GET("/:id", h.GetProfile)
	profiles.PUT("/:id", h.UpdateProfile)
	profiles.DELETE("/:id", h.DeleteProfile)

	notifications := api.Group("/notifications")
	notifications.GET("", h.ListNotifications)
	notifications.GET("/unread-count", h.UnreadCount)
	notifications.POST("", h.CreateNotification)
	notifications.PATCH("/:id/read", h.MarkNotificationRead)
	notifications.POST("/read-all", h.MarkAllNotificationsRead)

	businesses := api.Group("/businesses")
	businesses.GET("", h.SearchBusinesses)
	businesses.POST("", h.CreateBusiness)
	businesses.GET("/:id", h.GetBusiness)
	businesses.PUT("/:id", h.UpdateBusiness)
	businesses.POST("/:id/enquiries", h.SendEnquiry)
	api.POST("/send-business-enquiry-email", h.SendEnquiryEmail)

	api.GET("/ads", h.ActiveAds)
	api.POST("/ads/:id/views", h.RecordAdView)

	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.PATCH("/users/:id/status", h.SetUserStatus)
	admin.PATCH("/businesses/:id/status", h.SetBusinessStatus)
	admin.POST("/ads", h.CreateAd)
	admin.PATCH("/ads/:id/status", h.SetAdStatus)
}
