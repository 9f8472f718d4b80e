package v1

import (
	"net/http"

	"github.com/flexprice/salestax/internal/api/dto"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/service"
	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	service service.PreferenceService
	logger  *logger.Logger
}

func NewPreferenceHandler(service service.PreferenceService, logger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary List tax preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} dto.ListPreferencesResponse
// @Router /tax/preferences [get]
func (h *PreferenceHandler) ListPreferences(c *gin.Context) {
	resp, err := h.service.ListPreferences(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a tax preference
// @Tags Preferences
// @Accept json
// @Produce json
// @Param key path string true "Preference key"
// @Param preference body dto.UpdatePreferenceRequest true "New value"
// @Success 200 {object} dto.PreferenceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tax/preferences/{key} [put]
func (h *PreferenceHandler) UpdatePreference(c *gin.Context) {
	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePreference(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
