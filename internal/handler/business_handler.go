package handler

import (
	"net/http"

	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EnquiryRequest is the body of a business enquiry
type EnquiryRequest struct {
	BusinessID uint   `json:"businessId"`
	Comment    string `json:"comment"`
}

// CreateBusiness submits a listing for approval
func (h *Handler) CreateBusiness(c echo.Context) error {
	log := logger.FromContext(c)

	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	var req service.BusinessInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	b, err := h.Businesses.Create(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Business submitted for approval", b)
}

// GetBusiness returns one listing
func (h *Handler) GetBusiness(c echo.Context) error {
	userID, _ := currentUser(c)
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.Businesses.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", b)
}

// UpdateBusiness edits a listing the caller owns
func (h *Handler) UpdateBusiness(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.BusinessInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	b, err := h.Businesses.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Business updated successfully", b)
}

// SearchBusinesses lists approved listings, premium tiers first
func (h *Handler) SearchBusinesses(c echo.Context) error {
	filter := service.BusinessFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Tier:     c.QueryParam("tier"),
	}
	list, pagination, err := h.Businesses.Search(c.Request().Context(), filter, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       list,
		"pagination": pagination,
	})
}

// SendEnquiry sends an enquiry to the listing in the path
func (h *Handler) SendEnquiry(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req EnquiryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}
	return h.enquire(c, id, req.Comment)
}

// SendEnquiryEmail is the body-addressed form of SendEnquiry
func (h *Handler) SendEnquiryEmail(c echo.Context) error {
	var req EnquiryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}
	if req.BusinessID == 0 {
		return fail(c, http.StatusBadRequest, "businessId is required")
	}
	return h.enquire(c, req.BusinessID, req.Comment)
}

func (h *Handler) enquire(c echo.Context, businessID uint, comment string) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	res, err := h.Businesses.Enquire(c.Request().Context(), userID, businessID, comment)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Enquiry sent successfully", res)
}
