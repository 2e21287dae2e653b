package cart

import (
	"context"
	"errors"

	"bracelet-customizer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const cartColumns = `id::text, COALESCE(session_id, ''), currency, total, state, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	q := `
INSERT INTO carts (session_id, currency, total, state)
VALUES ($1, $2, 0, 'active')
RETURNING ` + cartColumns
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, in.SessionID, in.Currency).Scan(
		&cart.ID,
		&cart.SessionID,
		&cart.Currency,
		&cart.Total,
		&cart.State,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts
WHERE session_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, sessionID)
}

func (r *postgresRepo) AddLineItem(ctx context.Context, cartID string, in AddLineInput) (string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return "", err
	}

	var lineID string
	if in.Customization == nil {
		var existingQty int
		err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2 AND customization IS NULL
`, cartID, in.Product.ID).Scan(&lineID, &existingQty)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		if err == nil {
			if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total = unit_price * $1
WHERE id = $2
`, existingQty+in.Quantity, lineID); err != nil {
				return "", err
			}
		}
	}

	if lineID == "" {
		total := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		err = tx.QueryRow(ctx, `
INSERT INTO cart_lines (cart_id, product_id, product_name, quantity, base_price, unit_price, total, customization, custom_image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
RETURNING id::text
`, cartID, in.Product.ID, in.Product.Name, in.Quantity, in.Product.Price, in.UnitPrice, total, in.Customization, in.CustomImageURL).Scan(&lineID)
		if err != nil {
			return "", err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return "", err
	}

	return lineID, tx.Commit(ctx)
}

func (r *postgresRepo) ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return err
	}

	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineItemID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total = unit_price * $1
WHERE id = $2 AND cart_id = $3
`, quantity, lineItemID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateLinePrices writes recomputed unit prices, then the cart total, in one transaction. Line
// totals are taken from the quantity stored at write time.
func (r *postgresRepo) UpdateLinePrices(ctx context.Context, cartID string, prices []domain.LinePrice) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(`
UPDATE cart_lines
SET unit_price = $1, total = $1 * quantity
WHERE id = $2 AND cart_id = $3
`, p.UnitPrice, p.LineID, cartID)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.SessionID,
		&cart.Currency,
		&cart.Total,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, product_name, quantity, base_price, unit_price, total, customization, COALESCE(custom_image_url, ''), created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.ProductName,
			&line.Quantity,
			&line.BasePrice,
			&line.UnitPrice,
			&line.Total,
			&line.Customization,
			&line.CustomImageURL,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// lockActiveCart takes a row lock on the cart and rejects carts that were already checked out.
func lockActiveCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	var state string
	err := tx.QueryRow(ctx, `SELECT state FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if state != domain.CartStateActive {
		return domain.ErrCartClosed
	}
	return nil
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total = COALESCE((
	SELECT SUM(total)
	FROM cart_lines
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return err
}
