package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/therapymatch-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewAdminHandler(profileUseCase *profile.ProfileUseCase) *AdminHandler {
	return &AdminHandler{
		profileUseCase: profileUseCase,
	}
}

type VerificationRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// SetVerification handles PUT /admin/helpers/:helper_id/verification
// @Summary Verify or unverify a helper
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param helper_id path int true "Helper ID"
// @Param request body VerificationRequest true "Verification flag"
// @Success 200 {object} domain.Helper
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/helpers/{helper_id}/verification [put]
func (h *AdminHandler) SetVerification(c *gin.Context) {
	helperID, ok := pathID(c, "helper_id")
	if !ok {
		return
	}

	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	helper, err := h.profileUseCase.SetHelperVerification(c.Request.Context(), helperID, *req.IsVerified)
	if err != nil {
		writeError(c, err, "failed to update verification")
		return
	}

	c.JSON(http.StatusOK, helper)
}

// ListHelpers handles GET /admin/helpers?verified=true|false
func (h *AdminHandler) ListHelpers(c *gin.Context) {
	var verified *bool
	if raw, present := c.GetQuery("verified"); present {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "verified must be a boolean"})
			return
		}
		verified = &v
	}

	helpers, err := h.profileUseCase.ListHelpers(c.Request.Context(), verified)
	if err != nil {
		writeError(c, err, "failed to list helpers")
		return
	}

	c.JSON(http.StatusOK, helpers)
}
