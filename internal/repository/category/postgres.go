package category

import (
	"context"

	"bracelet-customizer/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByKind(ctx context.Context, kind domain.ProductType) ([]domain.Category, error) {
	const q = `
SELECT id::text, kind, key, name, COALESCE(order_hint, ''), created_at
FROM categories
WHERE kind = $1
ORDER BY order_hint ASC NULLS LAST, name ASC
`
	rows, err := r.pool.Query(ctx, q, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var (
			c    domain.Category
			kind string
		)
		if err := rows.Scan(&c.ID, &kind, &c.Key, &c.Name, &c.OrderHint, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Kind = domain.ProductType(kind)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (kind, key, name, order_hint)
VALUES ($1, $2, $3, NULLIF($4, ''))
ON CONFLICT (kind, key) DO UPDATE
SET name = EXCLUDED.name,
    order_hint = COALESCE(NULLIF(EXCLUDED.order_hint, ''), categories.order_hint)
RETURNING id::text, created_at, COALESCE(order_hint, '')
`
	out := c
	err := r.pool.QueryRow(ctx, q, string(c.Kind), c.Key, c.Name, c.OrderHint).
		Scan(&out.ID, &out.CreatedAt, &out.OrderHint)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
