package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	cartrepo "bracelet-customizer/internal/repository/cart"
	"bracelet-customizer/internal/settings"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo     cartRepo
	products productRepo
	drafts   draftRepo
	settings settingsSource
	log      zerolog.Logger
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID string, in cartrepo.AddLineInput) (string, error)
	ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error
	UpdateLinePrices(ctx context.Context, cartID string, prices []domain.LinePrice) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type draftRepo interface {
	Find(ctx context.Context, ref string) (*domain.Draft, error)
}

type settingsSource interface {
	Current(ctx context.Context) (settings.Store, error)
}

func New(repo cartRepo, products productRepo, drafts draftRepo, settings settingsSource, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		drafts:   drafts,
		settings: settings,
		log:      log.With().Str("service", "cart").Logger(),
	}
}

type CreateInput struct {
	SessionID *string `json:"sessionId,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// AddLineInput adds a product to a cart. Customization and CustomizationID are mutually exclusive;
// CustomizationID refers to a saved draft by id or session id.
type AddLineInput struct {
	ProductID       string
	Quantity        int
	Customization   *customization.Record
	CustomizationID string
	CustomImageURL  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Cart, error) {
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		st, err := s.settings.Current(ctx)
		if err != nil {
			return nil, err
		}
		currency = st.Currency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrInvalidInput)
	}
	if in.SessionID != nil {
		sid := strings.TrimSpace(*in.SessionID)
		if sid == "" {
			in.SessionID = nil
		} else {
			in.SessionID = &sid
		}
	}
	return s.repo.Create(ctx, cartrepo.CreateCartInput{SessionID: in.SessionID, Currency: currency})
}

// Get returns the cart with current prices.
func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.Recalculate(ctx, id)
}

func (s *Service) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Recalculate(ctx, cart.ID)
}

// AddLine validates and prices the line, then stores it. A customized line is committed and always
// becomes a new line.
func (s *Service) AddLine(ctx context.Context, cartID string, in AddLineInput) (*domain.Cart, error) {
	cartID, err := domain.ParseID(cartID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	productID, err := domain.ParseID(in.ProductID, domain.ErrInvalidInput)
	if err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if in.Customization != nil && strings.TrimSpace(in.CustomizationID) != "" {
		return nil, fmt.Errorf("%w: send either customization or customizationId", domain.ErrInvalidInput)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrInvalidInput, productID)
		}
		return nil, err
	}

	rec, err := s.resolveRecord(ctx, productID, in)
	if err != nil {
		return nil, err
	}

	st, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	rules := st.Rules()

	line := cartrepo.AddLineInput{
		Product:        *product,
		Quantity:       in.Quantity,
		UnitPrice:      product.Price,
		CustomImageURL: strings.TrimSpace(in.CustomImageURL),
	}

	if rec != nil {
		if !product.IsCustomizable() {
			return nil, domain.ErrNotCustomizable
		}
		committed, err := customization.Commit(*rec, rules)
		if err != nil {
			return nil, err
		}
		if err := customization.ValidateSize(*rec, catalog.ProductSizes(*product, st.Sizes())); err != nil {
			return nil, err
		}
		line.Customization = &committed
		line.UnitPrice = customization.ResolvePrice(product.Price, *rec, rules)
	}

	lineID, err := s.repo.AddLineItem(ctx, cartID, line)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("cart_id", cartID).
		Str("line_id", lineID).
		Str("product", product.Key).
		Bool("customized", line.Customization != nil).
		Str("unit_price", line.UnitPrice.String()).
		Msg("line added")

	return s.view(ctx, cartID, rules)
}

// ChangeQuantity sets a line's quantity. Zero removes the line.
func (s *Service) ChangeQuantity(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	cartID, err := domain.ParseID(cartID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, fmt.Errorf("%w: lineItemId required", domain.ErrInvalidInput)
	}
	lineID, err = domain.ParseID(lineID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	st, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ChangeLineItemQuantity(ctx, cartID, lineID, quantity); err != nil {
		return nil, err
	}
	return s.view(ctx, cartID, st.Rules())
}

// Recalculate re-prices every line from its stored base price and the current settings. Running it
// again without changes in between writes nothing. Carts that were checked out are returned as is.
func (s *Service) Recalculate(ctx context.Context, cartID string) (*domain.Cart, error) {
	cartID, err := domain.ParseID(cartID, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	rules := st.Rules()
	if !cart.Active() {
		decorate(cart, rules)
		return cart, nil
	}

	prices := repriceLines(cart.Lines, rules)
	if len(prices) == 0 {
		decorate(cart, rules)
		return cart, nil
	}

	if err := s.repo.UpdateLinePrices(ctx, cartID, prices); err != nil {
		return nil, err
	}
	s.log.Info().Str("cart_id", cartID).Int("lines", len(prices)).Msg("cart repriced")
	return s.view(ctx, cartID, rules)
}

// resolveRecord returns the record sent inline or the one saved as a draft for productID.
func (s *Service) resolveRecord(ctx context.Context, productID string, in AddLineInput) (*customization.Record, error) {
	if in.Customization != nil {
		rec := in.Customization.Clone()
		return &rec, nil
	}
	ref := strings.TrimSpace(in.CustomizationID)
	if ref == "" {
		return nil, nil
	}
	if s.drafts == nil {
		return nil, errors.New("customization drafts unavailable")
	}
	draft, err := s.drafts.Find(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown customization %s", domain.ErrInvalidInput, ref)
		}
		return nil, err
	}
	if draftProduct, err := domain.ParseID(draft.ProductID, domain.ErrInvalidInput); err != nil || draftProduct != productID {
		return nil, fmt.Errorf("%w: customization %s was saved for another product", domain.ErrInvalidInput, ref)
	}
	rec := draft.Customization.Clone()
	return &rec, nil
}

func (s *Service) view(ctx context.Context, cartID string, rules customization.Settings) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	decorate(cart, rules)
	return cart, nil
}

// repriceLines returns the lines whose stored price differs from the recomputed one.
func repriceLines(lines []domain.CartLine, rules customization.Settings) []domain.LinePrice {
	var out []domain.LinePrice
	for _, line := range lines {
		unit := line.BasePrice
		if line.Customization != nil {
			unit = customization.ResolvePrice(line.BasePrice, line.Customization.Record(), rules)
		}
		total := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if unit.Equal(line.UnitPrice) && total.Equal(line.Total) {
			continue
		}
		out = append(out, domain.LinePrice{LineID: line.ID, UnitPrice: unit})
	}
	return out
}

// decorate fills the display data: projected pairs and the display precision.
func decorate(cart *domain.Cart, rules customization.Settings) {
	cart.FractionDigits = rules.FractionDigits
	for i := range cart.Lines {
		if c := cart.Lines[i].Customization; c != nil {
			cart.Lines[i].Meta = customization.Project(c.Record())
		}
	}
}
