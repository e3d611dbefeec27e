package derivacion

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Derivacion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Derivacion, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Derivacion, int, error)
	Update(ctx context.Context, d *Derivacion) error
	// Aceptar and Rechazar only apply while the referral is still
	// "Pendiente". They return false when the guard did not match.
	Aceptar(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	Rechazar(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
