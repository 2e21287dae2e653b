package domain

import "time"

// Category groups charms or bracelets in the customizer's tabs.
type Category struct {
	ID        string      `json:"id"`
	Kind      ProductType `json:"kind"`
	Key       string      `json:"key"`
	Name      string      `json:"name"`
	OrderHint string      `json:"orderHint,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
