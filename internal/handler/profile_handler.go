package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstbill/internal/service"
)

// ProfileHandler handles business profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Upsert handles PUT /api/v1/profiles/:user_id
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID := c.Param("user_id")

	var input service.UpsertProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	profile, err := h.profileService.Upsert(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}

// Get handles GET /api/v1/profiles/:user_id
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}
