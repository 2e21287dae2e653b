package draft

import (
	"context"
	"errors"

	"bracelet-customizer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Save(ctx context.Context, d domain.Draft) (*domain.Draft, error) {
	const q = `
INSERT INTO customization_drafts (id, session_id, product_id, customization)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id) DO UPDATE
SET id = EXCLUDED.id,
    product_id = EXCLUDED.product_id,
    customization = EXCLUDED.customization,
    created_at = now()
RETURNING created_at
`
	out := d
	if err := r.pool.QueryRow(ctx, q, d.ID, d.SessionID, d.ProductID, d.Customization).Scan(&out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Find(ctx context.Context, ref string) (*domain.Draft, error) {
	const q = `
SELECT id::text, session_id, product_id::text, customization, created_at
FROM customization_drafts
WHERE id::text = $1 OR session_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	var d domain.Draft
	err := r.pool.QueryRow(ctx, q, ref).Scan(&d.ID, &d.SessionID, &d.ProductID, &d.Customization, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
