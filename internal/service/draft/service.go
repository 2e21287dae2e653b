package draft

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

type draftRepo interface {
	Save(ctx context.Context, d domain.Draft) (*domain.Draft, error)
	Find(ctx context.Context, ref string) (*domain.Draft, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service stores customizations a shopper saved before adding them to a cart. Drafts are not
// validated; validation happens when a draft is added to a cart.
type Service struct {
	repo     draftRepo
	products productRepo
	log      zerolog.Logger
	newID    func() string
}

func New(repo draftRepo, products productRepo, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		log:      log.With().Str("service", "draft").Logger(),
		newID:    uuid.NewString,
	}
}

type SaveInput struct {
	SessionID     string
	ProductID     string
	Customization customization.Record
}

// Save stores the draft under a fresh id, replacing the session's previous draft.
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.Draft, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	productID, err := domain.ParseID(in.ProductID, domain.ErrInvalidInput)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrInvalidInput, productID)
		}
		return nil, err
	}

	saved, err := s.repo.Save(ctx, domain.Draft{
		ID:            s.newID(),
		SessionID:     sessionID,
		ProductID:     productID,
		Customization: in.Customization.Clone(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("draft_id", saved.ID).Str("session_id", sessionID).Msg("draft saved")
	return saved, nil
}

// Find looks a draft up by its id or by the session that saved it.
func (s *Service) Find(ctx context.Context, ref string) (*domain.Draft, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.Find(ctx, ref)
}
