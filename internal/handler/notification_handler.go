package handler

import (
	"net/http"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateNotificationRequest is a notification raised by a client feature
// such as a discussion reply, or an admin announcement.
type CreateNotificationRequest struct {
	UserID    uint   `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	RelatedID uint   `json:"relatedId"`
}

// ListNotifications returns the caller's notifications with read state
func (h *Handler) ListNotifications(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	unreadOnly := c.QueryParam("unread") == "true"
	list, pagination, err := h.Notifications.List(c.Request().Context(), userID, parsePage(c), unreadOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       list,
		"pagination": pagination,
	})
}

// UnreadCount returns the number of unread notifications
func (h *Handler) UnreadCount(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	n, err := h.Notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", echo.Map{"count": n})
}

// CreateNotification dispatches a client-raised notification. Workflow
// types are written by their workflows only.
func (h *Handler) CreateNotification(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}

	var req CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	switch req.Type {
	case model.NotificationDiscussionReply:
	case model.NotificationAnnouncement:
		if role, _ := c.Get("role").(string); role != model.RoleAdmin {
			return respondError(c, apperrors.Forbidden("Only admins can send announcements"))
		}
	default:
		return respondError(c, apperrors.Validation("Unsupported notification type"))
	}
	if req.Title == "" {
		return respondError(c, apperrors.Validation("title is required"))
	}

	n, err := h.Notifications.Dispatch(c.Request().Context(), service.Event{
		Type:      req.Type,
		UserID:    req.UserID,
		SenderID:  userID,
		Title:     req.Title,
		Message:   req.Message,
		RelatedID: req.RelatedID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Notification sent", n)
}

// MarkNotificationRead marks one notification read
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllNotificationsRead marks everything received so far as read
func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	if err := h.Notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "All notifications marked as read", nil)
}
