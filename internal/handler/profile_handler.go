package handler

import (
	"net/http"
	"strconv"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/profilewizard"
	"mauryavansham-service/internal/service"
	"mauryavansham-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ValidateStepRequest is one wizard section submitted for checking
type ValidateStepRequest struct {
	Step int                    `json:"step"`
	Data map[string]interface{} `json:"data"`
}

// ListOwnProfiles returns the caller's own profiles for the selection modal
func (h *Handler) ListOwnProfiles(c echo.Context) error {
	log := logger.FromContext(c)

	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	requested, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if requested != userID {
		log.Warn("Attempt to list another user's profiles", zap.Uint("requested_user_id", requested))
		return respondError(c, apperrors.Forbidden("You can only list your own profiles"))
	}

	profiles, err := h.Profiles.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", profiles)
}

// BrowseProfiles lists other members' active profiles
func (h *Handler) BrowseProfiles(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}

	minAge, _ := strconv.Atoi(c.QueryParam("minAge"))
	maxAge, _ := strconv.Atoi(c.QueryParam("maxAge"))
	filter := service.BrowseFilter{
		ViewerUserID:  userID,
		Gender:        c.QueryParam("gender"),
		City:          c.QueryParam("city"),
		State:         c.QueryParam("state"),
		MaritalStatus: c.QueryParam("maritalStatus"),
		MinAge:        minAge,
		MaxAge:        maxAge,
		Query:         c.QueryParam("q"),
	}

	profiles, pagination, err := h.Profiles.Browse(c.Request().Context(), filter, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       profiles,
		"pagination": pagination,
	})
}

// CreateProfile runs the whole wizard and stores the profile
func (h *Handler) CreateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}

	var req model.Profile
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	profile, err := h.Profiles.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, "Profile created successfully", profile)
}

// GetProfile returns one active profile
func (h *Handler) GetProfile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	profile, err := h.Profiles.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "", profile)
}

// UpdateProfile replaces a profile the caller owns
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req model.Profile
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}

	profile, err := h.Profiles.Update(c.Request().Context(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Profile updated successfully", profile)
}

// DeleteProfile soft-deletes a profile the caller owns
func (h *Handler) DeleteProfile(c echo.Context) error {
	userID, authed := currentUser(c)
	if !authed {
		return unauthenticated(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Profiles.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, "Profile deleted successfully", nil)
}

// ValidateProfileStep checks one wizard section without saving anything
func (h *Handler) ValidateProfileStep(c echo.Context) error {
	var req ValidateStepRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request data")
	}
	step := profilewizard.Step(req.Step)
	if !step.Valid() {
		return respondError(c, apperrors.Validation("step must be between 1 and 5"))
	}
	return c.JSON(http.StatusOK, h.Profiles.ValidateStep(step, req.Data))
}
