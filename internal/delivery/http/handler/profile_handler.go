package handler

import (
	"net/http"

	"github.com/gdugdh24/therapymatch-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetPreferences returns the current seeker's preferences
// @Summary Get seeker preferences
// @Tags seeker
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.SeekerPreferences
// @Failure 404 {object} ErrorResponse
// @Router /seeker/preferences [get]
func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	prefs, err := h.profileUseCase.GetSeekerPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to get preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the current seeker's preferences
// @Summary Update seeker preferences
// @Tags seeker
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} domain.SeekerPreferences
// @Failure 400 {object} ErrorResponse
// @Router /seeker/preferences [put]
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	prefs, err := h.profileUseCase.UpdateSeekerPreferences(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// GetHelperProfile returns the current helper's profile
// @Summary Get helper profile
// @Tags helper
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.HelperProfile
// @Failure 404 {object} ErrorResponse
// @Router /helper/profile [get]
func (h *ProfileHandler) GetHelperProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	helperProfile, err := h.profileUseCase.GetHelperProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, helperProfile)
}

// UpdateHelperProfile replaces the current helper's profile
// @Summary Update helper profile
// @Tags helper
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateHelperProfileRequest true "Profile"
// @Success 200 {object} domain.HelperProfile
// @Failure 400 {object} ErrorResponse
// @Router /helper/profile [put]
func (h *ProfileHandler) UpdateHelperProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.UpdateHelperProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	helperProfile, err := h.profileUseCase.UpdateHelperProfile(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, helperProfile)
}

// GetPendingMatches lists seekers whose needs overlap the helper's offering
// @Summary Pending matches
// @Tags helper
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Seeker
// @Router /helper/pending-matches [get]
func (h *ProfileHandler) GetPendingMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	seekers, err := h.profileUseCase.GetPendingMatches(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to get pending matches")
		return
	}

	c.JSON(http.StatusOK, seekers)
}
