// Package seed loads the built-in catalog and default store settings into an empty database.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/domain"
	"bracelet-customizer/internal/settings"
	"github.com/rs/zerolog"
)

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type categoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type settingsStore interface {
	Get(ctx context.Context) (*settings.Store, error)
	Save(ctx context.Context, s settings.Store) error
}

// Deps are the writers Apply uses.
type Deps struct {
	Products   productWriter
	Categories categoryWriter
	Settings   settingsStore
	Log        zerolog.Logger
}

var seedCategories = []domain.Category{
	{Kind: domain.ProductTypeCharm, Key: "bestsellers", Name: "Bestsellers", OrderHint: "1"},
	{Kind: domain.ProductTypeCharm, Key: "new-drops", Name: "New Drops & Favs", OrderHint: "2"},
	{Kind: domain.ProductTypeCharm, Key: "by-vibe", Name: "By Vibe", OrderHint: "3"},
	{Kind: domain.ProductTypeBracelet, Key: "standard", Name: "Standard", OrderHint: "1"},
	{Kind: domain.ProductTypeBracelet, Key: "special", Name: "Special", OrderHint: "2"},
}

// Apply inserts basic seed data for manual testing. It is idempotent: products and categories are
// upserted by key and settings are only written when none exist.
func Apply(ctx context.Context, deps Deps, assetBaseURL string, defaults settings.Store) error {
	static := catalog.NewStatic(assetBaseURL)

	for _, c := range seedCategories {
		if _, err := deps.Categories.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Key, err)
		}
	}

	bracelets, _ := static.Bracelets(ctx, catalog.Query{})
	for _, b := range bracelets {
		attrs, err := json.Marshal(catalog.BraceletAttributes{
			Image:          b.Image,
			GapImages:      b.GapImages,
			AvailableSizes: b.AvailableSizes,
			IsBestSeller:   b.IsBestSeller,
			Category:       b.Category,
		})
		if err != nil {
			return err
		}
		p := domain.Product{
			Key:          b.ID,
			SKU:          "BR-" + strings.ToUpper(b.ID),
			Type:         domain.ProductTypeBracelet,
			Name:         b.Name,
			Price:        b.BasePrice,
			Currency:     defaults.Currency,
			Customizable: true,
			Attributes:   attrs,
		}
		if _, err := deps.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert bracelet %s: %w", b.ID, err)
		}
	}

	charms, _ := static.Charms(ctx, catalog.Query{})
	for _, ch := range charms {
		attrs, err := json.Marshal(catalog.CharmAttributes{
			Image:    ch.Image,
			IsNew:    ch.IsNew,
			Category: ch.Category,
		})
		if err != nil {
			return err
		}
		p := domain.Product{
			Key:        ch.ID,
			SKU:        "CH-" + strings.ToUpper(ch.ID),
			Type:       domain.ProductTypeCharm,
			Name:       ch.Name,
			Price:      ch.Price,
			Currency:   defaults.Currency,
			Attributes: attrs,
		}
		if _, err := deps.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert charm %s: %w", ch.ID, err)
		}
	}

	if _, err := deps.Settings.Get(ctx); err == nil {
		deps.Log.Info().Msg("store settings already present, leaving them untouched")
	} else if errors.Is(err, domain.ErrNotFound) {
		if err := deps.Settings.Save(ctx, defaults); err != nil {
			return fmt.Errorf("save default settings: %w", err)
		}
	} else {
		return fmt.Errorf("load settings: %w", err)
	}

	deps.Log.Info().
		Int("bracelets", len(bracelets)).
		Int("charms", len(charms)).
		Int("categories", len(seedCategories)).
		Msg("seed applied")
	return nil
}
