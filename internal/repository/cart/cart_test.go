package cart

import (
	"context"
	"os"
	"testing"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"bracelet-customizer/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	session := "sess-1"
	created, err := repo.Create(ctx, CreateCartInput{SessionID: &session, Currency: "USD"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Currency != "USD" || created.State != domain.CartStateActive {
		t.Fatalf("unexpected cart %+v", created)
	}

	fetched, err := repo.GetActiveBySession(ctx, session)
	if err != nil {
		t.Fatalf("GetActiveBySession: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("fetched mismatch %+v", fetched)
	}
}

func TestPostgres_CustomizedLinesAreNeverMerged(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool)
	repo := NewPostgres(pool)
	cart, err := repo.Create(ctx, CreateCartInput{Currency: "USD"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	committed, err := customization.Commit(customization.Record{Word: "mia", LetterColor: "gold"}, customization.DefaultSettings())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.AddLineItem(ctx, cart.ID, AddLineInput{
			Product:       product,
			Quantity:      1,
			UnitPrice:     decimal.NewFromInt(35),
			Customization: &committed,
		}); err != nil {
			t.Fatalf("AddLineItem: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.AddLineItem(ctx, cart.ID, AddLineInput{Product: product, Quantity: 2, UnitPrice: product.Price}); err != nil {
			t.Fatalf("AddLineItem plain: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].Customization == nil || got.Lines[0].Customization.Record().Word != "mia" {
		t.Fatalf("expected committed customization on first line, got %+v", got.Lines[0])
	}
	if got.Lines[2].Quantity != 4 || got.Lines[2].Customization != nil {
		t.Fatalf("expected merged plain line with quantity 4, got %+v", got.Lines[2])
	}
	// 35 + 35 + 4*20
	if !got.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected total %s", got.Total)
	}

	if err := repo.UpdateLinePrices(ctx, cart.ID, []domain.LinePrice{{
		LineID:    got.Lines[0].ID,
		UnitPrice: decimal.NewFromInt(40),
	}}); err != nil {
		t.Fatalf("UpdateLinePrices: %v", err)
	}
	got, err = repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Total.Equal(decimal.NewFromInt(155)) {
		t.Fatalf("unexpected total after reprice %s", got.Total)
	}

	if err := repo.ChangeLineItemQuantity(ctx, cart.ID, got.Lines[2].ID, 0); err != nil {
		t.Fatalf("ChangeLineItemQuantity: %v", err)
	}
	if err := repo.ChangeLineItemQuantity(ctx, cart.ID, got.Lines[2].ID, 1); err != domain.ErrNotFound {
		t.Fatalf("expected not found for removed line, got %v", err)
	}
}

func TestPostgres_UpdateLinePricesFollowsStoredQuantity(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := insertProduct(ctx, t, pool)
	repo := NewPostgres(pool)
	cart, err := repo.Create(ctx, CreateCartInput{Currency: "USD"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lineID, err := repo.AddLineItem(ctx, cart.ID, AddLineInput{Product: product, Quantity: 1, UnitPrice: decimal.NewFromInt(35)})
	if err != nil {
		t.Fatalf("AddLineItem: %v", err)
	}

	// a quantity change lands between reading the cart and writing new prices
	if err := repo.ChangeLineItemQuantity(ctx, cart.ID, lineID, 3); err != nil {
		t.Fatalf("ChangeLineItemQuantity: %v", err)
	}
	if err := repo.UpdateLinePrices(ctx, cart.ID, []domain.LinePrice{{LineID: lineID, UnitPrice: decimal.NewFromInt(40)}}); err != nil {
		t.Fatalf("UpdateLinePrices: %v", err)
	}

	got, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Lines[0].Quantity != 3 || !got.Lines[0].Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected 3 x 40 = 120, got %+v", got.Lines[0])
	}
	if !got.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected cart total %s", got.Total)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool) domain.Product {
	t.Helper()
	p := domain.Product{Name: "Bluestone", Price: decimal.NewFromInt(20)}
	err := pool.QueryRow(ctx, `
INSERT INTO products (key, sku, product_type, name, price, currency)
VALUES ('bluestone', 'BR-BLUE', 'bracelet', $1, $2, 'USD')
RETURNING id::text`, p.Name, p.Price).Scan(&p.ID)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return p
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, cart_lines, carts, customization_drafts, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
