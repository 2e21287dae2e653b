package settings

import (
	"context"
	"errors"

	"bracelet-customizer/internal/domain"
	"bracelet-customizer/internal/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context) (*settings.Store, error) {
	var s settings.Store
	err := r.pool.QueryRow(ctx, `SELECT data FROM store_settings WHERE id = 1`).Scan(&s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Save(ctx context.Context, s settings.Store) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO store_settings (id, data, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE
SET data = EXCLUDED.data,
    updated_at = now()
`, s)
	return err
}
