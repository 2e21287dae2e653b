package order

import (
	"context"

	"bracelet-customizer/internal/domain"
)

type Repository interface {
	// Create stores the order and closes its cart. It fails with domain.ErrCartClosed when the cart
	// was already checked out and with domain.ErrCartChanged when the cart's lines or total no longer
	// match the order.
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}
