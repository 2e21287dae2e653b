package category

import (
	"context"
	"errors"
	"testing"

	"bracelet-customizer/internal/domain"
)

type stubRepo struct {
	upserted []domain.Category
}

func (s *stubRepo) ListByKind(_ context.Context, kind domain.ProductType) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.upserted {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.upserted = append(s.upserted, c)
	return &c, nil
}

func TestServiceUpsertNormalizesKey(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	got, err := svc.Upsert(context.Background(), domain.Category{Kind: domain.ProductTypeCharm, Key: " New Drops ", Name: "New Drops & Favs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "new-drops" {
		t.Fatalf("expected normalized key, got %q", got.Key)
	}

	list, err := svc.List(context.Background(), domain.ProductTypeCharm)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one charm category, got %v (%v)", list, err)
	}
}

func TestServiceUpsertValidation(t *testing.T) {
	svc := New(&stubRepo{})
	cases := []domain.Category{
		{Kind: "shoe", Key: "k", Name: "n"},
		{Kind: domain.ProductTypeCharm, Key: " ", Name: "n"},
		{Kind: domain.ProductTypeCharm, Key: "k"},
	}
	for _, c := range cases {
		if _, err := svc.Upsert(context.Background(), c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", c, err)
		}
	}
}
