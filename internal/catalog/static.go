package catalog

import (
	"context"
	"strconv"
	"strings"

	"bracelet-customizer/internal/customization"
	"github.com/shopspring/decimal"
)

// StaticFallbackCatalog serves the built-in bracelets and charms. It never fails.
type StaticFallbackCatalog struct {
	bracelets []Bracelet
	charms    []Charm
}

// NewStatic builds the built-in catalog with image URLs under assetBaseURL.
func NewStatic(assetBaseURL string) *StaticFallbackCatalog {
	base := strings.TrimRight(assetBaseURL, "/")
	img := func(path string) string { return base + "/images/" + path }

	bluestoneGaps := make(map[string]string, 12)
	for n := 2; n <= 13; n++ {
		bluestoneGaps[strconv.Itoa(n)] = img("bracelets/bluestone-" + strconv.Itoa(n) + "char.webp")
	}

	bracelet := func(id, name string, price int64, bestseller bool, category string) Bracelet {
		return Bracelet{
			ID:             id,
			Name:           name,
			BasePrice:      decimal.NewFromInt(price),
			Image:          img("bracelets/" + id + ".webp"),
			AvailableSizes: append([]string(nil), customization.DefaultSizes...),
			IsBestSeller:   bestseller,
			Category:       category,
			Slug:           id,
		}
	}
	bluestone := bracelet("bluestone", "Bluestone", 0, true, DefaultBraceletCategory)
	bluestone.GapImages = bluestoneGaps

	charm := func(id, name, image string, price int64, isNew bool, category string) Charm {
		return Charm{
			ID:       id,
			Name:     name,
			Price:    decimal.NewFromInt(price),
			Image:    img("charms/" + image),
			IsNew:    isNew,
			Category: category,
			Slug:     id,
		}
	}

	return &StaticFallbackCatalog{
		bracelets: []Bracelet{
			bracelet("gold-plated", "Gold Plated", 0, true, DefaultBraceletCategory),
			bluestone,
			bracelet("amethyst-dreams", "Amethyst Dreams", 5, false, "special"),
			bracelet("rose-gold", "Rose Gold", 10, false, "special"),
		},
		charms: []Charm{
			charm("teacher", "#1 Teacher", "teacher-banner.jpg", 14, true, "bestsellers"),
			charm("heart", "Heart", "apple.jpg", 12, false, "bestsellers"),
			charm("star", "Star", "paint-palette.jpg", 10, false, "by-vibe"),
			charm("moon", "Moon", "moon.png", 13, true, "new-drops"),
			charm("butterfly", "Butterfly", "butterfly.png", 15, false, "by-vibe"),
			charm("anchor", "Anchor", "anchor.png", 11, false, "bestsellers"),
		},
	}
}

func (c *StaticFallbackCatalog) Bracelets(_ context.Context, q Query) ([]Bracelet, error) {
	return FilterBracelets(c.bracelets, q), nil
}

func (c *StaticFallbackCatalog) Charms(_ context.Context, q Query) ([]Charm, error) {
	return FilterCharms(c.charms, q), nil
}
