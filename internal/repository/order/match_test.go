package order

import (
	"testing"

	"bracelet-customizer/internal/domain"
	"github.com/shopspring/decimal"
)

func TestMatchesCart(t *testing.T) {
	d := decimal.NewFromInt
	order := domain.Order{
		Total: d(55),
		Lines: []domain.OrderLine{
			{CartLineID: "l1", Quantity: 1, UnitPrice: d(35), Total: d(35)},
			{CartLineID: "l2", Quantity: 2, UnitPrice: d(10), Total: d(20)},
		},
	}
	stored := func() map[string]cartLineState {
		return map[string]cartLineState{
			"l1": {Quantity: 1, UnitPrice: d(35), Total: d(35)},
			"l2": {Quantity: 2, UnitPrice: decimal.RequireFromString("10.0000"), Total: d(20)},
		}
	}

	if !matchesCart(order, stored(), decimal.RequireFromString("55.0000")) {
		t.Fatalf("expected identical cart to match")
	}

	cases := map[string]func(map[string]cartLineState) decimal.Decimal{
		"line added": func(m map[string]cartLineState) decimal.Decimal {
			m["l3"] = cartLineState{Quantity: 1, UnitPrice: d(20), Total: d(20)}
			return d(75)
		},
		"line removed": func(m map[string]cartLineState) decimal.Decimal {
			delete(m, "l2")
			return d(35)
		},
		"quantity changed": func(m map[string]cartLineState) decimal.Decimal {
			m["l2"] = cartLineState{Quantity: 3, UnitPrice: d(10), Total: d(30)}
			return d(65)
		},
		"repriced": func(m map[string]cartLineState) decimal.Decimal {
			m["l1"] = cartLineState{Quantity: 1, UnitPrice: d(40), Total: d(40)}
			return d(60)
		},
		"total drifted": func(map[string]cartLineState) decimal.Decimal {
			return d(56)
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := stored()
			total := mutate(m)
			if matchesCart(order, m, total) {
				t.Fatalf("expected mismatch")
			}
		})
	}

	dup := order
	dup.Lines = []domain.OrderLine{order.Lines[0], order.Lines[0]}
	if matchesCart(dup, map[string]cartLineState{"l1": {Quantity: 1, UnitPrice: d(35), Total: d(35)}, "l9": {}}, d(70)) {
		t.Fatalf("duplicate order lines must not match")
	}
}
