package category

import (
	"context"
	"fmt"
	"strings"

	"bracelet-customizer/internal/domain"
	"bracelet-customizer/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, kind domain.ProductType) ([]domain.Category, error) {
	return s.repo.ListByKind(ctx, kind)
}

// Upsert stores a category. Keys are lower-cased with spaces turned into dashes so they match the
// category filter of the catalog listings.
func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown category kind %q", domain.ErrInvalidInput, c.Kind)
	}
	c.Key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Key)), " ", "-")
	c.Name = strings.TrimSpace(c.Name)
	if c.Key == "" || c.Name == "" {
		return nil, fmt.Errorf("%w: category key and name required", domain.ErrInvalidInput)
	}
	return s.repo.Upsert(ctx, c)
}
