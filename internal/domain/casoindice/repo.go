package casoindice

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists index cases.
type Repository interface {
	Create(ctx context.Context, caso *CasoIndice) error
	GetByID(ctx context.Context, id uuid.UUID) (*CasoIndice, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*CasoIndice, int, error)
	Update(ctx context.Context, caso *CasoIndice) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
