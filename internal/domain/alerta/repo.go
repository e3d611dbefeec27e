package alerta

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Alerta) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alerta, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Alerta, int, error)
	Update(ctx context.Context, a *Alerta) error
	// Resolver marks the alert resolved unless it already is. Returns
	// false when a prior resolution won, leaving it untouched.
	Resolver(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
