package tpt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type IndicacionRepository interface {
	Create(ctx context.Context, ind *TptIndicacion) error
	GetByID(ctx context.Context, id uuid.UUID) (*TptIndicacion, error)
	List(ctx context.Context, f IndicacionFilter, limit, offset int) ([]*TptIndicacion, int, error)
	ListByContacto(ctx context.Context, contactoID uuid.UUID, limit, offset int) ([]*TptIndicacion, int, error)
	Update(ctx context.Context, ind *TptIndicacion) error
	// Iniciar moves the indication to "En curso" only if it is still
	// "Indicado". Returns false when the guard did not match.
	Iniciar(ctx context.Context, id uuid.UUID, fechaInicio, fechaFin time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ConsentimientoRepository interface {
	// Create inserts the consent unless one already exists for the
	// indication. Returns false when a prior consent won.
	Create(ctx context.Context, cons *TptConsentimiento) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TptConsentimiento, error)
	GetByIndicacion(ctx context.Context, indicacionID uuid.UUID) (*TptConsentimiento, error)
	List(ctx context.Context, limit, offset int) ([]*TptConsentimiento, int, error)
	Update(ctx context.Context, cons *TptConsentimiento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SeguimientoRepository interface {
	// CreateEnCurso inserts the follow-up only while the parent
	// indication is "En curso". Returns false otherwise.
	CreateEnCurso(ctx context.Context, seg *TptSeguimiento) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TptSeguimiento, error)
	List(ctx context.Context, f SeguimientoFilter, limit, offset int) ([]*TptSeguimiento, int, error)
	ListByIndicacion(ctx context.Context, indicacionID uuid.UUID, limit, offset int) ([]*TptSeguimiento, int, error)
	Update(ctx context.Context, seg *TptSeguimiento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReaccionRepository interface {
	Create(ctx context.Context, r *ReaccionAdversa) error
	GetByID(ctx context.Context, id uuid.UUID) (*ReaccionAdversa, error)
	List(ctx context.Context, f ReaccionFilter, limit, offset int) ([]*ReaccionAdversa, int, error)
	Update(ctx context.Context, r *ReaccionAdversa) error
	Delete(ctx context.Context, id uuid.UUID) error
}
