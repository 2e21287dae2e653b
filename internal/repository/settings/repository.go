package settings

import (
	"context"

	"bracelet-customizer/internal/settings"
)

type Repository interface {
	// Get returns domain.ErrNotFound until a document has been saved.
	Get(ctx context.Context) (*settings.Store, error)
	Save(ctx context.Context, s settings.Store) error
}
