package domain

import (
	"time"

	"bracelet-customizer/internal/customization"
)

// Draft is a customization saved from the customizer before it reaches a cart. It is not validated.
type Draft struct {
	ID            string               `json:"id"`
	SessionID     string               `json:"sessionId"`
	ProductID     string               `json:"productId"`
	Customization customization.Record `json:"customization"`
	CreatedAt     time.Time            `json:"createdAt"`
}
