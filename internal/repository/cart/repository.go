package cart

import (
	"context"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateCartInput struct {
	SessionID *string
	Currency  string
}

// AddLineInput describes a new cart line. Lines with a customization are never merged.
type AddLineInput struct {
	Product        domain.Product
	Quantity       int
	UnitPrice      decimal.Decimal
	Customization  *customization.Committed
	CustomImageURL string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID string, in AddLineInput) (string, error)
	ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error
	UpdateLinePrices(ctx context.Context, cartID string, prices []domain.LinePrice) error
}
