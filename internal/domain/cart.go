package domain

import (
	"encoding/json"
	"time"

	"bracelet-customizer/internal/customization"
	"github.com/shopspring/decimal"
)

const (
	CartStateActive  = "active"
	CartStateOrdered = "ordered"
)

type Cart struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId,omitempty"`
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	State     string          `json:"state"`
	CreatedAt time.Time       `json:"createdAt"`
	Lines     []CartLine      `json:"lineItems,omitempty"`
	// FractionDigits is the display precision prices are rendered with.
	FractionDigits int32 `json:"fractionDigits"`
}

// Active reports whether the cart still accepts changes.
func (c Cart) Active() bool {
	return c.State == CartStateActive
}

// MarshalJSON renders every price with exactly FractionDigits fraction digits. Stored amounts keep
// their full precision.
func (c Cart) MarshalJSON() ([]byte, error) {
	type plainCart Cart
	lines := make([]cartLineJSON, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = cartLineJSON{
			plainCartLine: plainCartLine(l),
			BasePrice:     l.BasePrice.StringFixed(c.FractionDigits),
			UnitPrice:     l.UnitPrice.StringFixed(c.FractionDigits),
			Total:         l.Total.StringFixed(c.FractionDigits),
		}
	}
	return json.Marshal(struct {
		plainCart
		Total string         `json:"total"`
		Lines []cartLineJSON `json:"lineItems,omitempty"`
	}{
		plainCart: plainCart(c),
		Total:     c.Total.StringFixed(c.FractionDigits),
		Lines:     lines,
	})
}

type CartLine struct {
	ID            string                   `json:"id"`
	CartID        string                   `json:"cartId"`
	ProductID     string                   `json:"productId"`
	ProductName   string                   `json:"productName"`
	Quantity      int                      `json:"quantity"`
	BasePrice     decimal.Decimal          `json:"basePrice"`
	UnitPrice     decimal.Decimal          `json:"unitPrice"`
	Total         decimal.Decimal          `json:"total"`
	Customization *customization.Committed `json:"customization,omitempty"`
	// Meta is derived from Customization on read and never stored.
	Meta           []customization.Pair `json:"meta,omitempty"`
	CustomImageURL string               `json:"customImageUrl,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

type plainCartLine CartLine

type cartLineJSON struct {
	plainCartLine
	BasePrice string `json:"basePrice"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

// LinePrice is a recomputed unit price for one cart line. The line total follows its quantity.
type LinePrice struct {
	LineID    string
	UnitPrice decimal.Decimal
}
