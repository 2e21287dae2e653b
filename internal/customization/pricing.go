package customization

import "github.com/shopspring/decimal"

// PriceScale is the number of fraction digits prices are stored with.
const PriceScale = 4

// ColorSurcharge is the configured surcharge for a letter color, or zero when no color is chosen or
// the color is unknown.
func ColorSurcharge(color string, s Settings) decimal.Decimal {
	c, ok := s.Color(color)
	if !ok {
		return decimal.Zero
	}
	return c.Surcharge
}

// ResolvePrice computes the unit price of a customized line from the product's base price.
// The result is always derived from basePrice, so repeated calls never accumulate.
// No rounding happens here; see Round.
func ResolvePrice(basePrice decimal.Decimal, rec Record, s Settings) decimal.Decimal {
	return basePrice.
		Add(ColorSurcharge(rec.LetterColor, s)).
		Add(rec.CharmsTotal())
}

// Round applies the store's display precision.
func Round(amount decimal.Decimal, s Settings) decimal.Decimal {
	return amount.Round(s.FractionDigits)
}

// FormatPrice renders amount with exactly the configured number of fraction digits.
func FormatPrice(amount decimal.Decimal, s Settings) string {
	return amount.StringFixed(s.FractionDigits)
}
