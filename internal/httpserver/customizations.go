package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	draftsvc "bracelet-customizer/internal/service/draft"
	"github.com/gin-gonic/gin"
)

type saveDraftRequest struct {
	SessionID     string          `json:"sessionId" binding:"required"`
	ProductID     string          `json:"productId" binding:"required"`
	Customization json.RawMessage `json:"customization" binding:"required"`
}

func (h *handlers) saveDraft(c *gin.Context) {
	var body saveDraftRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	rec, err := customization.DecodeBytes(body.Customization)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	draft, err := h.deps.DraftSvc.Save(c.Request.Context(), draftsvc.SaveInput{
		SessionID:     body.SessionID,
		ProductID:     body.ProductID,
		Customization: rec,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusCreated, draft)
}

func (h *handlers) getDraft(c *gin.Context) {
	draft, err := h.deps.DraftSvc.Find(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, draft)
}
