package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductType distinguishes the catalog entries the customizer works with.
type ProductType string

const (
	ProductTypeBracelet ProductType = "bracelet"
	ProductTypeCharm    ProductType = "charm"
	ProductTypeCollab   ProductType = "collab"
)

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeBracelet, ProductTypeCharm, ProductTypeCollab:
		return true
	}
	return false
}

type Product struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	SKU          string          `json:"sku"`
	Type         ProductType     `json:"type"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Customizable bool            `json:"customizable"`
	Attributes   json.RawMessage `json:"attributes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// IsCustomizable reports whether a customization may be attached to the product.
// Bracelets always take one; other types only when flagged.
func (p Product) IsCustomizable() bool {
	return p.Type == ProductTypeBracelet || p.Customizable
}
