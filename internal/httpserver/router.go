package httpserver

import (
	"context"
	"errors"
	"time"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/domain"
	cartsvc "bracelet-customizer/internal/service/cart"
	draftsvc "bracelet-customizer/internal/service/draft"
	"bracelet-customizer/internal/settings"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type CatalogService interface {
	Bracelets(ctx context.Context, q catalog.Query, forceStatic bool) (catalog.BraceletListing, error)
	Charms(ctx context.Context, q catalog.Query, forceStatic bool) (catalog.CharmListing, error)
}

type CategoryService interface {
	List(ctx context.Context, kind domain.ProductType) ([]domain.Category, error)
}

type SettingsService interface {
	Current(ctx context.Context) (settings.Store, error)
	Replace(ctx context.Context, s settings.Store) (settings.Store, error)
}

type DraftService interface {
	Save(ctx context.Context, in draftsvc.SaveInput) (*domain.Draft, error)
	Find(ctx context.Context, ref string) (*domain.Draft, error)
}

type CartService interface {
	Create(ctx context.Context, in cartsvc.CreateInput) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, in cartsvc.AddLineInput) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error)
	Recalculate(ctx context.Context, cartID string) (*domain.Cart, error)
}

type OrderService interface {
	Checkout(ctx context.Context, cartID string) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

// Deps are the services the handlers call.
type Deps struct {
	Catalog     CatalogService
	CategorySvc CategoryService
	SettingsSvc SettingsService
	DraftSvc    DraftService
	CartSvc     CartService
	OrderSvc    OrderService
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.SettingsSvc == nil:
		return errors.New("settings service required")
	case d.DraftSvc == nil:
		return errors.New("draft service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(log zerolog.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(requestID(), requestLogger(log), gin.Recovery(), corsMiddleware(opts.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, log: log}

	router.GET("/bracelets", h.listBracelets)
	router.GET("/charms", h.listCharms)
	router.GET("/categories", h.listCategories)

	router.GET("/settings", h.getSettings)
	router.PUT("/settings", h.putSettings)

	router.POST("/customizations", h.saveDraft)
	router.GET("/customizations/:ref", h.getDraft)

	carts := router.Group("/carts")
	carts.POST("", h.createCart)
	carts.GET("/:id", h.getCart)
	carts.POST("/:id/lines", h.addLine)
	carts.PATCH("/:id/lines/:lineId", h.changeLine)
	carts.POST("/:id/recalculate", h.recalculateCart)
	carts.POST("/:id/checkout", h.checkout)

	router.GET("/orders/:id", h.getOrder)

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           5 * time.Minute,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
