package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/rs/zerolog"
)

// BraceletAttributes is the attributes document stored on bracelet products.
type BraceletAttributes struct {
	Image            string            `json:"image,omitempty"`
	GapImages        map[string]string `json:"gapImages,omitempty"`
	MainCharmImage   string            `json:"mainCharmImage,omitempty"`
	SpaceStoneImages map[string]string `json:"spaceStoneImages,omitempty"`
	AvailableSizes   []string          `json:"availableSizes,omitempty"`
	IsBestSeller     bool              `json:"isBestSeller,omitempty"`
	Category         string            `json:"category,omitempty"`
}

// CharmAttributes is the attributes document stored on charm products.
type CharmAttributes struct {
	Image          string            `json:"image,omitempty"`
	PositionImages map[string]string `json:"positionImages,omitempty"`
	IsNew          bool              `json:"isNew,omitempty"`
	Category       string            `json:"category,omitempty"`
	Vibe           string            `json:"vibe,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
}

type productLister interface {
	ListByType(ctx context.Context, productType domain.ProductType) ([]domain.Product, error)
}

// LiveCatalog reads bracelets and charms from the product table.
type LiveCatalog struct {
	products productLister
	log      zerolog.Logger
}

func NewLive(products productLister, log zerolog.Logger) *LiveCatalog {
	return &LiveCatalog{products: products, log: log.With().Str("catalog", "live").Logger()}
}

func (c *LiveCatalog) Bracelets(ctx context.Context, q Query) ([]Bracelet, error) {
	products, err := c.products.ListByType(ctx, domain.ProductTypeBracelet)
	if err != nil {
		return nil, fmt.Errorf("list bracelets: %w", err)
	}
	out := make([]Bracelet, 0, len(products))
	for _, p := range products {
		b, err := BraceletFromProduct(p)
		if err != nil {
			c.log.Warn().Err(err).Str("product", p.Key).Msg("skipping bracelet with unreadable attributes")
			continue
		}
		out = append(out, b)
	}
	return FilterBracelets(out, q), nil
}

func (c *LiveCatalog) Charms(ctx context.Context, q Query) ([]Charm, error) {
	products, err := c.products.ListByType(ctx, domain.ProductTypeCharm)
	if err != nil {
		return nil, fmt.Errorf("list charms: %w", err)
	}
	out := make([]Charm, 0, len(products))
	for _, p := range products {
		ch, err := CharmFromProduct(p)
		if err != nil {
			c.log.Warn().Err(err).Str("product", p.Key).Msg("skipping charm with unreadable attributes")
			continue
		}
		out = append(out, ch)
	}
	return FilterCharms(out, q), nil
}

// BraceletFromProduct maps a bracelet product and its attributes document.
func BraceletFromProduct(p domain.Product) (Bracelet, error) {
	var attrs BraceletAttributes
	if err := decodeAttributes(p.Attributes, &attrs); err != nil {
		return Bracelet{}, err
	}
	category := strings.ToLower(strings.TrimSpace(attrs.Category))
	if category == "" {
		category = DefaultBraceletCategory
	}
	return Bracelet{
		ID:               p.Key,
		ProductID:        p.ID,
		Name:             p.Name,
		Description:      p.Description,
		BasePrice:        p.Price,
		Image:            attrs.Image,
		GapImages:        attrs.GapImages,
		MainCharmImage:   attrs.MainCharmImage,
		SpaceStoneImages: attrs.SpaceStoneImages,
		AvailableSizes:   sizesOrDefault(attrs.AvailableSizes),
		IsBestSeller:     attrs.IsBestSeller,
		Category:         category,
		Slug:             p.Key,
		SKU:              p.SKU,
	}, nil
}

// CharmFromProduct maps a charm product and its attributes document.
func CharmFromProduct(p domain.Product) (Charm, error) {
	var attrs CharmAttributes
	if err := decodeAttributes(p.Attributes, &attrs); err != nil {
		return Charm{}, err
	}
	category := strings.ToLower(strings.TrimSpace(attrs.Category))
	if category == "" {
		category = DefaultCharmCategory
	}
	return Charm{
		ID:             p.Key,
		ProductID:      p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Image:          attrs.Image,
		PositionImages: attrs.PositionImages,
		IsNew:          attrs.IsNew,
		Category:       category,
		Vibe:           attrs.Vibe,
		Tags:           attrs.Tags,
		Slug:           p.Key,
		SKU:            p.SKU,
	}, nil
}

// ProductSizes returns the band sizes a product offers, or fallback when a bracelet lists none.
// Only bracelets declare sizes; other products return nil, which accepts any size.
func ProductSizes(p domain.Product, fallback []string) []string {
	if p.Type != domain.ProductTypeBracelet {
		return nil
	}
	var attrs BraceletAttributes
	if err := decodeAttributes(p.Attributes, &attrs); err != nil || len(attrs.AvailableSizes) == 0 {
		return fallback
	}
	return attrs.AvailableSizes
}

func sizesOrDefault(sizes []string) []string {
	if len(sizes) == 0 {
		return customization.DefaultSizes
	}
	return sizes
}

func decodeAttributes(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	return nil
}
