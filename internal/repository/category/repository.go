package category

import (
	"context"

	"bracelet-customizer/internal/domain"
)

type Repository interface {
	ListByKind(ctx context.Context, kind domain.ProductType) ([]domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
