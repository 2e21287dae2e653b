package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type cartPricer interface {
	Recalculate(ctx context.Context, cartID string) (*domain.Cart, error)
}

type orderRepo interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type Service struct {
	carts     cartPricer
	repo      orderRepo
	log       zerolog.Logger
	newNumber func() string
}

func New(carts cartPricer, repo orderRepo, log zerolog.Logger) *Service {
	return &Service{
		carts:     carts,
		repo:      repo,
		log:       log.With().Str("service", "order").Logger(),
		newNumber: orderNumber,
	}
}

// Checkout reprices the cart, turns it into an order and closes it. Each order line keeps the
// committed customization as it was on the cart line, next to its display pairs. When the cart
// changes between pricing and placing the order, the checkout is retried once on a fresh snapshot.
func (s *Service) Checkout(ctx context.Context, cartID string) (*domain.Order, error) {
	var (
		created *domain.Order
		err     error
	)
	for attempt := 0; attempt < 2; attempt++ {
		created, err = s.place(ctx, cartID)
		if !errors.Is(err, domain.ErrCartChanged) {
			break
		}
		s.log.Warn().Str("cart_id", cartID).Int("attempt", attempt+1).Msg("cart changed during checkout")
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("order_id", created.ID).
		Str("number", created.Number).
		Str("cart_id", created.CartID).
		Str("total", created.Total.String()).
		Int("lines", len(created.Lines)).
		Msg("order placed")
	return created, nil
}

func (s *Service) place(ctx context.Context, cartID string) (*domain.Order, error) {
	cart, err := s.carts.Recalculate(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.Active() {
		return nil, domain.ErrCartClosed
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	order := domain.Order{
		Number:         s.newNumber(),
		CartID:         cart.ID,
		Currency:       cart.Currency,
		Total:          cart.Total,
		FractionDigits: cart.FractionDigits,
		Lines:          make([]domain.OrderLine, 0, len(cart.Lines)),
	}
	for _, line := range cart.Lines {
		ol := domain.OrderLine{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Total:          line.Total,
			Customization:  line.Customization,
			CustomImageURL: line.CustomImageURL,
			CartLineID:     line.ID,
		}
		if line.Customization != nil {
			ol.Meta = customization.Project(line.Customization.Record())
		}
		order.Lines = append(order.Lines, ol)
	}
	return s.repo.Create(ctx, order)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	id, err := domain.ParseID(id, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func orderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BC-" + strings.ToUpper(id[:10])
}
