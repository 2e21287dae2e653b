package product

import (
	"context"

	"bracelet-customizer/internal/domain"
)

type Repository interface {
	ListByType(ctx context.Context, productType domain.ProductType) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
