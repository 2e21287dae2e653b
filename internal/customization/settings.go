package customization

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultMinWordLength  = 2
	DefaultMaxWordLength  = 13
	DefaultFractionDigits = 2
)

// DefaultGoldSurcharge is the premium charged for gold letters.
var DefaultGoldSurcharge = decimal.NewFromInt(15)

// DefaultSizes are the band sizes offered when a product does not list its own.
var DefaultSizes = []string{"XS", "S/M", "M/L", "L/XL"}

// LetterColor is a selectable letter color and its surcharge.
type LetterColor struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Enabled   bool            `json:"enabled"`
}

// Settings is the slice of store configuration the rules depend on.
type Settings struct {
	MinWordLength  int
	MaxWordLength  int
	LetterColors   []LetterColor
	FractionDigits int32
}

// DefaultSettings mirrors the stock store configuration.
func DefaultSettings() Settings {
	return Settings{
		MinWordLength: DefaultMinWordLength,
		MaxWordLength: DefaultMaxWordLength,
		LetterColors: []LetterColor{
			{ID: "white", Name: "White", Surcharge: decimal.Zero, Enabled: true},
			{ID: "pink", Name: "Pink", Surcharge: decimal.Zero, Enabled: true},
			{ID: "black", Name: "Black", Surcharge: decimal.Zero, Enabled: true},
			{ID: "gold", Name: "Gold", Surcharge: DefaultGoldSurcharge, Enabled: true},
		},
		FractionDigits: DefaultFractionDigits,
	}
}

// Color looks up a letter color by id, case-insensitively.
func (s Settings) Color(id string) (LetterColor, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return LetterColor{}, false
	}
	for _, c := range s.LetterColors {
		if strings.ToLower(c.ID) == id {
			return c, true
		}
	}
	return LetterColor{}, false
}
