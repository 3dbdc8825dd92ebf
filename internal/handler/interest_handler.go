package handler

import (
	"context"
	"net/http"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ExpressInterestRequest is the body of an expression of interest
type ExpressInterestRequest struct {
	SenderUserID    uint                 `json:"senderUserId"`
	SenderProfileID uint                 `json:"senderProfileId"`
	ReceiverUserID  uint                 `json:"receiverUserId"`
	SenderProfile   model.SenderSnapshot `json:"senderProfile"`
	Message         string               `json:"message"`
}

// RespondRequest carries an accept/decline/withdraw action
type RespondRequest struct {
	Action string `json:"action"`
}

// ExpressInterest records interest from one of the caller's profiles in
// the profile named by the path.
func (h *Handler) ExpressInterest(c echo.Context) error {
	log := logger.FromContext(c)

	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	receiverProfileID, err := parseID(c, "receiverProfileId")
	if err != nil {
		return respondError(c, err)
	}

	var req ExpressInterestRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	// the body may repeat the sender, but the session decides who it is
	if req.SenderUserID != 0 && req.SenderUserID != userID {
		log.Warn("Sender in body does not match session", zap.Uint("body_sender_user_id", req.SenderUserID))
		return respondError(c, apperrors.Forbidden("You can only express interest from your own account"))
	}
	if req.SenderProfileID == 0 {
		return respondError(c, apperrors.Validation("senderProfileId is required"))
	}

	result, err := h.Interests.ExpressInterest(c.Request().Context(), service.ExpressInterestRequest{
		SenderUserID:      userID,
		SenderProfileID:   req.SenderProfileID,
		ReceiverUserID:    req.ReceiverUserID,
		ReceiverProfileID: receiverProfileID,
		SenderSnapshot:    req.SenderProfile,
		Message:           req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Interest sent successfully", result)
}

// RespondToInterest accepts, declines or withdraws a pending interest
func (h *Handler) RespondToInterest(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	interest, err := h.Interests.RespondToInterest(c.Request().Context(), userID, id, req.Action)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Interest "+string(interest.Status), interest)
}

// ListReceivedInterests lists interest addressed to the caller's profiles
func (h *Handler) ListReceivedInterests(c echo.Context) error {
	return h.listInterests(c, h.Interests.ListReceived)
}

// ListSentInterests lists interest the caller has expressed
func (h *Handler) ListSentInterests(c echo.Context) error {
	return h.listInterests(c, h.Interests.ListSent)
}

type interestLister func(ctx context.Context, userID uint, status string, page service.Page) ([]model.Interest, service.Pagination, error)

func (h *Handler) listInterests(c echo.Context, list interestLister) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	interests, pagination, err := list(c.Request().Context(), userID, c.QueryParam("status"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       interests,
		"pagination": pagination,
	})
}
