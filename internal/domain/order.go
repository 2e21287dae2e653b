package domain

import (
	"encoding/json"
	"time"

	"bracelet-customizer/internal/customization"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	CartID         string          `json:"cartId"`
	Currency       string          `json:"currency"`
	Total          decimal.Decimal `json:"total"`
	FractionDigits int32           `json:"fractionDigits"`
	CreatedAt      time.Time       `json:"createdAt"`
	Lines          []OrderLine     `json:"lineItems"`
}

// MarshalJSON renders prices with the precision the order was placed with.
func (o Order) MarshalJSON() ([]byte, error) {
	type plainOrder Order
	lines := make([]orderLineJSON, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineJSON{
			plainOrderLine: plainOrderLine(l),
			UnitPrice:      l.UnitPrice.StringFixed(o.FractionDigits),
			Total:          l.Total.StringFixed(o.FractionDigits),
		}
	}
	return json.Marshal(struct {
		plainOrder
		Total string          `json:"total"`
		Lines []orderLineJSON `json:"lineItems"`
	}{
		plainOrder: plainOrder(o),
		Total:      o.Total.StringFixed(o.FractionDigits),
		Lines:      lines,
	})
}

// OrderLine keeps the committed customization verbatim next to its display pairs.
type OrderLine struct {
	ID             string                   `json:"id"`
	OrderID        string                   `json:"orderId"`
	ProductID      string                   `json:"productId"`
	ProductName    string                   `json:"productName"`
	Quantity       int                      `json:"quantity"`
	UnitPrice      decimal.Decimal          `json:"unitPrice"`
	Total          decimal.Decimal          `json:"total"`
	Customization  *customization.Committed `json:"customization,omitempty"`
	Meta           []customization.Pair     `json:"meta,omitempty"`
	CustomImageURL string                   `json:"customImageUrl,omitempty"`
	// CartLineID is the cart line the order line was taken from. It is only set while placing the order.
	CartLineID string `json:"-"`
}

type plainOrderLine OrderLine

type orderLineJSON struct {
	plainOrderLine
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}
