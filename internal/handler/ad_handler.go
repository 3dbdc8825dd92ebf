package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ActiveAds returns the ads currently running for a placement
func (h *Handler) ActiveAds(c echo.Context) error {
	ads, err := h.Ads.Active(c.Request().Context(), c.QueryParam("placement"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", ads)
}

// RecordAdView counts one impression
func (h *Handler) RecordAdView(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	views, err := h.Ads.RecordView(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", echo.Map{"viewCount": views})
}
