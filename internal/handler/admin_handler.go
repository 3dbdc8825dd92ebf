package handler

import (
	"net/http"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/service"

	"github.com/labstack/echo/v4"
)

type statusRequest struct {
	Status      string `json:"status"`
	PremiumTier string `json:"premiumTier"`
}

func bindStatusRequest(c echo.Context) (uint, statusRequest, error) {
	var req statusRequest
	id, err := parseID(c, "id")
	if err != nil {
		return 0, req, err
	}
	if err := c.Bind(&req); err != nil {
		return 0, req, apperrors.Validation("Invalid request data")
	}
	return id, req, nil
}

func bindStatus(c echo.Context) (uint, string, error) {
	id, req, err := bindStatusRequest(c)
	return id, req.Status, err
}

// SetUserStatus approves or rejects an account
func (h *Handler) SetUserStatus(c echo.Context) error {
	id, status, err := bindStatus(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.SetStatus(c.Request().Context(), id, model.UserStatus(status))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "User "+status, user)
}

// SetBusinessStatus approves or rejects a listing and optionally assigns
// its premium tier
func (h *Handler) SetBusinessStatus(c echo.Context) error {
	id, req, err := bindStatusRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.Businesses.SetStatus(c.Request().Context(), id, req.Status, req.PremiumTier)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Business "+req.Status, b)
}

// CreateAd stores a new pending ad
func (h *Handler) CreateAd(c echo.Context) error {
	adminID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	var req service.AdInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}
	ad, err := h.Ads.Create(c.Request().Context(), adminID, req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Ad created", ad)
}

// SetAdStatus approves or rejects an ad
func (h *Handler) SetAdStatus(c echo.Context) error {
	id, status, err := bindStatus(c)
	if err != nil {
		return respondError(c, err)
	}
	ad, err := h.Ads.SetStatus(c.Request().Context(), id, status)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Ad "+status, ad)
}
