package catalogo

import (
	"context"

	"github.com/google/uuid"
)

// EstablecimientoRepository persists health facilities.
type EstablecimientoRepository interface {
	Create(ctx context.Context, e *Establecimiento) error
	GetByID(ctx context.Context, id uuid.UUID) (*Establecimiento, error)
	List(ctx context.Context, soloActivos bool, limit, offset int) ([]*Establecimiento, int, error)
	Update(ctx context.Context, e *Establecimiento) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// EsquemaRepository persists TPT regimens.
type EsquemaRepository interface {
	Create(ctx context.Context, e *EsquemaTpt) error
	GetByID(ctx context.Context, id uuid.UUID) (*EsquemaTpt, error)
	List(ctx context.Context, soloActivos bool, limit, offset int) ([]*EsquemaTpt, int, error)
	Update(ctx context.Context, e *EsquemaTpt) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
