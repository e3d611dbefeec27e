package contacto

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists contacts.
type Repository interface {
	Create(ctx context.Context, contacto *Contacto) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contacto, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Contacto, int, error)
	ListByCaso(ctx context.Context, casoID uuid.UUID, limit, offset int) ([]*Contacto, int, error)
	Update(ctx context.Context, contacto *Contacto) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
