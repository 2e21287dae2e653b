package order

import (
	"context"
	"errors"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		state     string
		cartTotal decimal.Decimal
	)
	err = tx.QueryRow(ctx, `SELECT state, total FROM carts WHERE id = $1 FOR UPDATE`, order.CartID).Scan(&state, &cartTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if state != domain.CartStateActive {
		return nil, domain.ErrCartClosed
	}

	current, err := cartLines(ctx, tx, order.CartID)
	if err != nil {
		return nil, err
	}
	if !matchesCart(order, current, cartTotal) {
		return nil, domain.ErrCartChanged
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET state = 'ordered' WHERE id = $1`, order.CartID); err != nil {
		return nil, err
	}

	out := order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (number, cart_id, currency, total, fraction_digits)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`, order.Number, order.CartID, order.Currency, order.Total, order.FractionDigits).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, err
	}

	out.Lines = make([]domain.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		line.OrderID = out.ID
		if line.Meta == nil {
			line.Meta = []customization.Pair{}
		}
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, position, product_id, product_name, quantity, unit_price, total, customization, meta, custom_image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
RETURNING id::text
`, out.ID, i, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.Total, line.Customization, line.Meta, line.CustomImageURL).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		out.Lines[i] = line
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT id::text, number, cart_id::text, currency, total, fraction_digits, created_at
FROM orders
WHERE id = $1
`, id).Scan(&o.ID, &o.Number, &o.CartID, &o.Currency, &o.Total, &o.FractionDigits, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price, total, customization, meta, COALESCE(custom_image_url, '')
FROM order_lines
WHERE order_id = $1
ORDER BY position ASC
`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.Quantity,
			&line.UnitPrice,
			&line.Total,
			&line.Customization,
			&line.Meta,
			&line.CustomImageURL,
		); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// cartLineState is the part of a stored cart line an order line must agree with.
type cartLineState struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

func cartLines(ctx context.Context, tx pgx.Tx, cartID string) (map[string]cartLineState, error) {
	rows, err := tx.Query(ctx, `
SELECT id::text, quantity, unit_price, total
FROM cart_lines
WHERE cart_id = $1
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]cartLineState)
	for rows.Next() {
		var (
			id    string
			state cartLineState
		)
		if err := rows.Scan(&id, &state.Quantity, &state.UnitPrice, &state.Total); err != nil {
			return nil, err
		}
		out[id] = state
	}
	return out, rows.Err()
}

// matchesCart reports whether the order was built from the cart as it is stored now: the same line
// set with the same quantities and prices, and the same total.
func matchesCart(order domain.Order, current map[string]cartLineState, total decimal.Decimal) bool {
	if len(order.Lines) != len(current) || !order.Total.Equal(total) {
		return false
	}
	seen := make(map[string]struct{}, len(order.Lines))
	for _, line := range order.Lines {
		stored, ok := current[line.CartLineID]
		if !ok {
			return false
		}
		if _, dup := seen[line.CartLineID]; dup {
			return false
		}
		seen[line.CartLineID] = struct{}{}
		if stored.Quantity != line.Quantity || !stored.UnitPrice.Equal(line.UnitPrice) || !stored.Total.Equal(line.Total) {
			return false
		}
	}
	return true
}
