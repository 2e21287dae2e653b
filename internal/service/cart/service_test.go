package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	cartrepo "bracelet-customizer/internal/repository/cart"
	"bracelet-customizer/internal/settings"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	cartID      = "0b6f3c1e-2a4d-4e8f-9c10-7d5e4f3a2b10"
	braceletID  = "5f0c3a6e-1b2c-4d3e-8f90-a1b2c3d4e5f6"
	charmID     = "8e2d4b7a-3c5f-4a6b-9d1e-2f3a4b5c6d7e"
	otherCartID = "9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"
)

func lineID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

// stubRepo keeps carts in memory and prices lines the way the Postgres repository does.
type stubRepo struct {
	carts        map[string]*domain.Cart
	nextLine     int
	createErr    error
	addErr       error
	lastAdd      cartrepo.AddLineInput
	updateCalls  int
	lastPrices   []domain.LinePrice
	lastChangeID string
	lastQty      int
}

func newStubRepo(carts ...*domain.Cart) *stubRepo {
	r := &stubRepo{carts: map[string]*domain.Cart{}}
	for _, c := range carts {
		r.carts[c.ID] = c
	}
	return r
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	c := &domain.Cart{ID: "new", Currency: in.Currency, State: domain.CartStateActive}
	if in.SessionID != nil {
		c.SessionID = *in.SessionID
	}
	s.carts[c.ID] = c
	return c, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *c
	out.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &out, nil
}

func (s *stubRepo) GetActiveBySession(_ context.Context, sessionID string) (*domain.Cart, error) {
	for _, c := range s.carts {
		if c.SessionID == sessionID && c.Active() {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) AddLineItem(_ context.Context, cartID string, in cartrepo.AddLineInput) (string, error) {
	s.lastAdd = in
	if s.addErr != nil {
		return "", s.addErr
	}
	c, ok := s.carts[cartID]
	if !ok {
		return "", domain.ErrNotFound
	}
	s.nextLine++
	line := domain.CartLine{
		ID:            lineID(s.nextLine),
		CartID:        cartID,
		ProductID:     in.Product.ID,
		Quantity:      in.Quantity,
		BasePrice:     in.Product.Price,
		UnitPrice:     in.UnitPrice,
		Total:         in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Customization: in.Customization,
	}
	c.Lines = append(c.Lines, line)
	s.sumTotal(c)
	return line.ID, nil
}

func (s *stubRepo) ChangeLineItemQuantity(_ context.Context, cartID, lineItemID string, quantity int) error {
	s.lastChangeID = lineItemID
	s.lastQty = quantity
	c, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, l := range c.Lines {
		if l.ID != lineItemID {
			continue
		}
		if quantity == 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = quantity
			c.Lines[i].Total = l.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		}
		s.sumTotal(c)
		return nil
	}
	return domain.ErrNotFound
}

func (s *stubRepo) UpdateLinePrices(_ context.Context, cartID string, prices []domain.LinePrice) error {
	s.updateCalls++
	s.lastPrices = prices
	c := s.carts[cartID]
	for _, p := range prices {
		for i := range c.Lines {
			if c.Lines[i].ID == p.LineID {
				c.Lines[i].UnitPrice = p.UnitPrice
				c.Lines[i].Total = p.UnitPrice.Mul(decimal.NewFromInt(int64(c.Lines[i].Quantity)))
			}
		}
	}
	s.sumTotal(c)
	return nil
}

func (s *stubRepo) sumTotal(c *domain.Cart) {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total)
	}
	c.Total = total
}

type stubProducts map[string]domain.Product

func (s stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubDrafts map[string]domain.Draft

func (s stubDrafts) Find(_ context.Context, ref string) (*domain.Draft, error) {
	d, ok := s[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

type stubSettings struct {
	store settings.Store
	err   error
}

func (s *stubSettings) Current(context.Context) (settings.Store, error) {
	return s.store, s.err
}

func defaultStore() *stubSettings {
	return &stubSettings{store: settings.Defaults(customization.DefaultSettings(), "USD")}
}

func testProducts(t *testing.T) stubProducts {
	t.Helper()
	attrs, err := json.Marshal(catalog.BraceletAttributes{AvailableSizes: []string{"S/M", "M/L"}})
	if err != nil {
		t.Fatalf("marshal attrs: %v", err)
	}
	return stubProducts{
		braceletID: {ID: braceletID, Key: "bluestone", Type: domain.ProductTypeBracelet, Name: "Bluestone", Price: decimal.NewFromInt(20), Attributes: attrs},
		charmID:    {ID: charmID, Key: "heart", Type: domain.ProductTypeCharm, Name: "Heart", Price: decimal.NewFromInt(12)},
	}
}

func activeCart() *domain.Cart {
	return &domain.Cart{ID: cartID, Currency: "USD", State: domain.CartStateActive}
}

func newService(t *testing.T, repo *stubRepo, drafts stubDrafts, st *stubSettings) *Service {
	t.Helper()
	return New(repo, testProducts(t), drafts, st, zerolog.Nop())
}

func TestServiceCreateDefaultsCurrency(t *testing.T) {
	repo := newStubRepo()
	svc := newService(t, repo, nil, defaultStore())

	sid := "  sess  "
	got, err := svc.Create(context.Background(), CreateInput{SessionID: &sid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Currency != "USD" || got.SessionID != "sess" {
		t.Fatalf("unexpected cart %+v", got)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newService(t, newStubRepo(), nil, defaultStore())
	_, err := svc.Create(context.Background(), CreateInput{Currency: "dollars"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceAddCustomizedLinePricesAndCommits(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, defaultStore())

	rec := customization.Record{
		Word:        "mia",
		LetterColor: "gold",
		SelectedCharms: []customization.Charm{
			{ID: "teacher", Name: "#1 Teacher", Price: decimal.NewFromInt(14)},
			{ID: "heart", Name: "Heart", Price: decimal.NewFromInt(12)},
		},
		Size: "m/l",
	}
	cart, err := svc.AddLine(context.Background(), cartID, AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &rec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.lastAdd.UnitPrice.Equal(decimal.NewFromInt(61)) {
		t.Fatalf("expected unit price 61, got %s", repo.lastAdd.UnitPrice)
	}
	if repo.lastAdd.Customization == nil {
		t.Fatalf("expected committed customization")
	}
	if len(cart.Lines) != 1 || len(cart.Lines[0].Meta) != 4 {
		t.Fatalf("expected one line with four meta pairs, got %+v", cart.Lines)
	}
	if cart.Lines[0].Meta[0].Value != "MIA" {
		t.Fatalf("unexpected meta %+v", cart.Lines[0].Meta)
	}

	rec.Word = "changed"
	if repo.lastAdd.Customization.Record().Word != "mia" {
		t.Fatalf("committed record changed after the caller mutated its copy")
	}
}

func TestServiceAddLineRejectsInvalidCustomization(t *testing.T) {
	cases := []struct {
		name string
		in   AddLineInput
		want error
	}{
		{"short word", AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &customization.Record{Word: "A"}}, customization.ErrWordTooShort},
		{"long word", AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &customization.Record{Word: "ABCDEFGHIJKLMN"}}, customization.ErrWordTooLong},
		{"bad color", AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &customization.Record{Word: "mia", LetterColor: "purple"}}, customization.ErrInvalidLetterColor},
		{"bad size", AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &customization.Record{Word: "mia", Size: "XS"}}, customization.ErrInvalidSize},
		{"not customizable", AddLineInput{ProductID: charmID, Quantity: 1, Customization: &customization.Record{Word: "mia"}}, domain.ErrNotCustomizable},
		{"unknown product", AddLineInput{ProductID: "nope", Quantity: 1}, domain.ErrInvalidInput},
		{"zero quantity", AddLineInput{ProductID: braceletID}, domain.ErrInvalidInput},
		{"unknown draft", AddLineInput{ProductID: braceletID, Quantity: 1, CustomizationID: "missing"}, domain.ErrInvalidInput},
		{"both sources", AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &customization.Record{Word: "mia"}, CustomizationID: "d1"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo(activeCart())
			svc := newService(t, repo, stubDrafts{}, defaultStore())
			_, err := svc.AddLine(context.Background(), cartID, tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.carts[cartID].Lines) != 0 {
				t.Fatalf("rejected line was stored")
			}
		})
	}
}

func TestServiceAddLineFromDraft(t *testing.T) {
	repo := newStubRepo(activeCart())
	drafts := stubDrafts{"sess-9": {ID: "d1", SessionID: "sess-9", ProductID: strings.ToUpper(braceletID), Customization: customization.Record{Word: "luna", LetterColor: "white"}}}
	svc := newService(t, repo, drafts, defaultStore())

	_, err := svc.AddLine(context.Background(), cartID, AddLineInput{ProductID: braceletID, Quantity: 2, CustomizationID: "sess-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastAdd.Customization == nil || repo.lastAdd.Customization.Record().Word != "luna" {
		t.Fatalf("expected draft record on line, got %+v", repo.lastAdd.Customization)
	}
	if !repo.carts[cartID].Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected total 40, got %s", repo.carts[cartID].Total)
	}
}

func TestServiceAddPlainLineUsesBasePrice(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, defaultStore())

	if _, err := svc.AddLine(context.Background(), cartID, AddLineInput{ProductID: charmID, Quantity: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastAdd.Customization != nil || !repo.lastAdd.UnitPrice.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected line input %+v", repo.lastAdd)
	}
}

func TestServiceRecalculateIsIdempotent(t *testing.T) {
	repo := newStubRepo(activeCart())
	st := defaultStore()
	svc := newService(t, repo, nil, st)
	ctx := context.Background()

	rec := customization.Record{Word: "mia", LetterColor: "gold"}
	if _, err := svc.AddLine(ctx, cartID, AddLineInput{ProductID: braceletID, Quantity: 2, Customization: &rec}); err != nil {
		t.Fatalf("add line: %v", err)
	}

	for i := 0; i < 3; i++ {
		cart, err := svc.Recalculate(ctx, cartID)
		if err != nil {
			t.Fatalf("recalculate: %v", err)
		}
		if !cart.Total.Equal(decimal.NewFromInt(70)) {
			t.Fatalf("run %d: expected total 70, got %s", i, cart.Total)
		}
	}
	if repo.updateCalls != 0 {
		t.Fatalf("expected no writes for unchanged prices, got %d", repo.updateCalls)
	}

	for i := range st.store.LetterColors {
		if st.store.LetterColors[i].ID == "gold" {
			st.store.LetterColors[i].Surcharge = decimal.NewFromInt(20)
		}
	}
	cart, err := svc.Get(ctx, cartID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.Total.Equal(decimal.NewFromInt(80)) || repo.updateCalls != 1 {
		t.Fatalf("expected repriced total 80 after one write, got %s (%d writes)", cart.Total, repo.updateCalls)
	}
}

func TestServiceRecalculateLeavesClosedCarts(t *testing.T) {
	closed := activeCart()
	closed.State = domain.CartStateOrdered
	closed.Lines = []domain.CartLine{{ID: "l1", Quantity: 1, BasePrice: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(99), Total: decimal.NewFromInt(99)}}
	repo := newStubRepo(closed)
	svc := newService(t, repo, nil, defaultStore())

	if _, err := svc.Recalculate(context.Background(), cartID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("closed cart was repriced")
	}
}

func TestServiceChangeQuantity(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, defaultStore())
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, cartID, AddLineInput{ProductID: charmID, Quantity: 1}); err != nil {
		t.Fatalf("add line: %v", err)
	}
	cart, err := svc.ChangeQuantity(ctx, cartID, lineID(1), 0)
	if err != nil {
		t.Fatalf("change quantity: %v", err)
	}
	if len(cart.Lines) != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if _, err := svc.ChangeQuantity(ctx, cartID, lineID(1), -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceSettingsErrorPropagates(t *testing.T) {
	boom := errors.New("settings down")
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, &stubSettings{err: boom})

	rec := customization.Record{Word: "mia"}
	_, err := svc.AddLine(context.Background(), cartID, AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &rec})
	if !errors.Is(err, boom) {
		t.Fatalf("expected settings error, got %v", err)
	}
}

func TestServiceMalformedIDs(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, defaultStore())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for malformed cart id, got %v", err)
	}
	if _, err := svc.AddLine(ctx, "abc", AddLineInput{ProductID: charmID, Quantity: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for malformed cart id, got %v", err)
	}
	if _, err := svc.AddLine(ctx, cartID, AddLineInput{ProductID: "p1", Quantity: 1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed product id, got %v", err)
	}
	if _, err := svc.ChangeQuantity(ctx, cartID, "l1", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for malformed line id, got %v", err)
	}
	if repo.lastChangeID != "" {
		t.Fatalf("malformed line id reached the repository")
	}

	upper := strings.ToUpper(cartID)
	if _, err := svc.AddLine(ctx, upper, AddLineInput{ProductID: strings.ToUpper(charmID), Quantity: 1}); err != nil {
		t.Fatalf("upper-case ids should be accepted: %v", err)
	}
	if len(repo.carts[cartID].Lines) != 1 {
		t.Fatalf("expected the line on the canonical cart id")
	}
	if _, err := svc.Get(ctx, otherCartID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown cart, got %v", err)
	}
}

func TestServiceAddLineRejectsDraftForAnotherProduct(t *testing.T) {
	repo := newStubRepo(activeCart())
	drafts := stubDrafts{"sess-1": {ID: "d1", SessionID: "sess-1", ProductID: charmID, Customization: customization.Record{Word: "luna"}}}
	svc := newService(t, repo, drafts, defaultStore())

	_, err := svc.AddLine(context.Background(), cartID, AddLineInput{ProductID: braceletID, Quantity: 1, CustomizationID: "sess-1"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(repo.carts[cartID].Lines) != 0 {
		t.Fatalf("line stored for mismatched draft")
	}
}

func TestServiceRendersStorePrecision(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := newService(t, repo, nil, defaultStore())
	ctx := context.Background()

	rec := customization.Record{
		Word:        "mia",
		LetterColor: "gold",
		SelectedCharms: []customization.Charm{
			{ID: "teacher", Name: "#1 Teacher", Price: decimal.NewFromInt(14)},
			{ID: "heart", Name: "Heart", Price: decimal.NewFromInt(12)},
		},
	}
	cart, err := svc.AddLine(ctx, cartID, AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &rec})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"total":"61.00"`) {
		t.Fatalf("expected total rendered with two digits, got %s", raw)
	}

	odd := customization.Record{Word: "mia", SelectedCharms: []customization.Charm{{ID: "third", Name: "Third", Price: decimal.RequireFromString("0.3333")}}}
	cart, err = svc.AddLine(ctx, cartID, AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &odd})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if !repo.lastAdd.UnitPrice.Equal(decimal.RequireFromString("20.3333")) {
		t.Fatalf("stored price must keep full precision, got %s", repo.lastAdd.UnitPrice)
	}
	raw, err = json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"unitPrice":"20.33"`) || !strings.Contains(string(raw), `"total":"81.33"`) {
		t.Fatalf("expected two-digit prices, got %s", raw)
	}

	tooFine := customization.Record{Word: "mia", SelectedCharms: []customization.Charm{{ID: "x", Price: decimal.RequireFromString("0.00001")}}}
	if _, err := svc.AddLine(ctx, cartID, AddLineInput{ProductID: braceletID, Quantity: 1, Customization: &tooFine}); !errors.Is(err, customization.ErrCharmPriceScale) {
		t.Fatalf("expected charm price scale error, got %v", err)
	}
}
