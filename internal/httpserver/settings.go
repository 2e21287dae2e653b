package httpserver

import (
	"fmt"
	"net/http"

	"bracelet-customizer/internal/domain"
	"bracelet-customizer/internal/settings"
	"github.com/gin-gonic/gin"
)

func (h *handlers) getSettings(c *gin.Context) {
	st, err := h.deps.SettingsSvc.Current(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, st.Public())
}

func (h *handlers) putSettings(c *gin.Context) {
	var body settings.Store
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	saved, err := h.deps.SettingsSvc.Replace(c.Request.Context(), body)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, saved)
}
