package draft

import (
	"context"

	"bracelet-customizer/internal/domain"
)

type Repository interface {
	// Save stores d, replacing any earlier draft of the same session.
	Save(ctx context.Context, d domain.Draft) (*domain.Draft, error)
	// Find returns the draft whose id or session id equals ref, newest first.
	Find(ctx context.Context, ref string) (*domain.Draft, error)
}
