package product

import (
	"context"
	"errors"
	"fmt"

	"bracelet-customizer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const selectColumns = `id::text, key, sku, product_type, name, COALESCE(description, ''), price, currency, customizable, attributes, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, log zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, log: log.With().Str("repo", "product").Logger()}
}

func (r *postgresRepo) ListByType(ctx context.Context, productType domain.ProductType) ([]domain.Product, error) {
	q := `
SELECT ` + selectColumns + `
FROM products
WHERE product_type = $1
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, string(productType))
	if err != nil {
		r.log.Error().Err(err).Str("type", string(productType)).Msg("list products")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Str("type", string(productType)).Msg("list products rows")
		return nil, err
	}
	r.log.Debug().Str("type", string(productType)).Int("count", len(result)).Msg("listed products")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `
SELECT ` + selectColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug().Str("id", id).Msg("product not found")
			return nil, domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("id", id).Msg("get product")
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, key, sku, product_type, name, description, price, currency, customizable, attributes)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, COALESCE($10::jsonb, '{}'::jsonb))
ON CONFLICT (key) DO UPDATE SET
    sku = EXCLUDED.sku,
    product_type = EXCLUDED.product_type,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    customizable = EXCLUDED.customizable,
    attributes = EXCLUDED.attributes
RETURNING id::text, created_at
`
	var attrs []byte
	if len(product.Attributes) > 0 {
		attrs = product.Attributes
	}

	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Key,
		product.SKU,
		string(product.Type),
		product.Name,
		product.Description,
		product.Price,
		product.Currency,
		product.Customizable,
		attrs,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("key", product.Key).Msg("upsert product")
		return nil, err
	}
	if product.ID != "" && res.ID != product.ID {
		return nil, fmt.Errorf("product repo: id mismatch for key=%s existing_id=%s import_id=%s", product.Key, res.ID, product.ID)
	}
	r.log.Debug().Str("key", res.Key).Str("id", res.ID).Msg("upserted product")
	return &res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		ptype string
		attrs []byte
	)
	if err := row.Scan(&p.ID, &p.Key, &p.SKU, &ptype, &p.Name, &p.Description, &p.Price, &p.Currency, &p.Customizable, &attrs, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Type = domain.ProductType(ptype)
	if len(attrs) > 0 {
		p.Attributes = attrs
	}
	return &p, nil
}
