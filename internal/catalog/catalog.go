// Package catalog lists the bracelets and charms shown in the customizer. Listings come from the
// product table when it has entries and from a built-in catalog otherwise.
package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CategoryAll             = "All"
	DefaultBraceletCategory = "standard"
	DefaultCharmCategory    = "bestsellers"
)

// Bracelet is a base bracelet offered in the customizer.
type Bracelet struct {
	ID               string            `json:"id"`
	ProductID        string            `json:"productId,omitempty"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	BasePrice        decimal.Decimal   `json:"basePrice"`
	Image            string            `json:"image"`
	GapImages        map[string]string `json:"gapImages,omitempty"`
	MainCharmImage   string            `json:"mainCharmImage,omitempty"`
	SpaceStoneImages map[string]string `json:"spaceStoneImages,omitempty"`
	AvailableSizes   []string          `json:"availableSizes"`
	IsBestSeller     bool              `json:"isBestSeller"`
	Category         string            `json:"category"`
	Slug             string            `json:"slug,omitempty"`
	SKU              string            `json:"sku,omitempty"`
}

// Charm is a charm that can be added to a bracelet.
type Charm struct {
	ID             string            `json:"id"`
	ProductID      string            `json:"productId,omitempty"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Price          decimal.Decimal   `json:"price"`
	Image          string            `json:"image"`
	PositionImages map[string]string `json:"positionImages,omitempty"`
	IsNew          bool              `json:"isNew"`
	Category       string            `json:"category"`
	Vibe           string            `json:"vibe,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Slug           string            `json:"slug,omitempty"`
	SKU            string            `json:"sku,omitempty"`
}

// Query narrows a listing. The zero value lists everything.
type Query struct {
	Category        string
	BestsellersOnly bool
	NewOnly         bool
}

// Source is anything that can list bracelets and charms.
type Source interface {
	Bracelets(ctx context.Context, q Query) ([]Bracelet, error)
	Charms(ctx context.Context, q Query) ([]Charm, error)
}

var charmCategoryLabels = map[string]string{
	"Bestsellers":      "bestsellers",
	"New Drops & Favs": "new-drops",
	"By Vibe":          "by-vibe",
}

// NormalizeCategory turns a category label from the storefront tabs into a category key. It
// returns "" for "All" and empty input.
func NormalizeCategory(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, CategoryAll) {
		return ""
	}
	if key, ok := charmCategoryLabels[label]; ok {
		return key
	}
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}

// FilterBracelets applies q to a bracelet list without modifying it.
func FilterBracelets(in []Bracelet, q Query) []Bracelet {
	category := NormalizeCategory(q.Category)
	out := make([]Bracelet, 0, len(in))
	for _, b := range in {
		if category != "" && !strings.EqualFold(b.Category, category) {
			continue
		}
		if q.BestsellersOnly && !b.IsBestSeller {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterCharms applies q to a charm list without modifying it.
func FilterCharms(in []Charm, q Query) []Charm {
	category := NormalizeCategory(q.Category)
	out := make([]Charm, 0, len(in))
	for _, c := range in {
		if category != "" && !strings.EqualFold(c.Category, category) {
			continue
		}
		if q.NewOnly && !c.IsNew {
			continue
		}
		out = append(out, c)
	}
	return out
}
