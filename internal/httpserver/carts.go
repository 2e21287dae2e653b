package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	cartsvc "bracelet-customizer/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addLineRequest struct {
	ProductID       string          `json:"productId" binding:"required"`
	Quantity        int             `json:"quantity"`
	Customization   json.RawMessage `json:"customization"`
	CustomizationID string          `json:"customizationId"`
	CustomImageURL  string          `json:"customImageUrl" binding:"omitempty,url"`
}

type changeLineRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

func (h *handlers) createCart(c *gin.Context) {
	var body cartsvc.CreateInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			return
		}
	}
	if body.SessionID == nil {
		if sid := c.GetHeader("X-Session-ID"); sid != "" {
			body.SessionID = &sid
		}
	}
	cart, err := h.deps.CartSvc.Create(c.Request.Context(), body)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusCreated, cart)
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, cart)
}

func (h *handlers) addLine(c *gin.Context) {
	var body addLineRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	in := cartsvc.AddLineInput{
		ProductID:       body.ProductID,
		Quantity:        body.Quantity,
		CustomizationID: body.CustomizationID,
		CustomImageURL:  body.CustomImageURL,
	}
	if len(body.Customization) > 0 && string(body.Customization) != "null" {
		rec, err := customization.DecodeBytes(body.Customization)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		in.Customization = &rec
	}

	cart, err := h.deps.CartSvc.AddLine(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusCreated, cart)
}

func (h *handlers) changeLine(c *gin.Context) {
	var body changeLineRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	cart, err := h.deps.CartSvc.ChangeQuantity(c.Request.Context(), c.Param("id"), c.Param("lineId"), *body.Quantity)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, cart)
}

func (h *handlers) recalculateCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Recalculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, cart)
}

func (h *handlers) checkout(c *gin.Context) {
	order, err := h.deps.OrderSvc.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusCreated, order)
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.OrderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeData(c, http.StatusOK, order)
}
