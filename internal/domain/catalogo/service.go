package catalogo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type Service struct {
	establecimientos EstablecimientoRepository
	esquemas         EsquemaRepository
}

func NewService(est EstablecimientoRepository, esq EsquemaRepository) *Service {
	return &Service{establecimientos: est, esquemas: esq}
}

// -- Establecimiento --

func (s *Service) CreateEstablecimiento(ctx context.Context, e *Establecimiento) error {
	if e.Nombre == "" {
		return apperror.Validation("nombre_requerido", "El nombre es obligatorio")
	}
	if e.Codigo == "" {
		return apperror.Validation("codigo_requerido", "El código es obligatorio")
	}
	return s.establecimientos.Create(ctx, e)
}

func (s *Service) GetEstablecimiento(ctx context.Context, id uuid.UUID) (*Establecimiento, error) {
	e, err := s.establecimientos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("establecimiento_no_encontrado", "Establecimiento no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return e, nil
}

func (s *Service) ListEstablecimientos(ctx context.Context, soloActivos bool, limit, offset int) ([]*Establecimiento, int, error) {
	return s.establecimientos.List(ctx, soloActivos, limit, offset)
}

func (s *Service) UpdateEstablecimiento(ctx context.Context, e *Establecimiento) error {
	existing, err := s.GetEstablecimiento(ctx, e.ID)
	if err != nil {
		return err
	}
	if e.Nombre == "" {
		e.Nombre = existing.Nombre
	}
	if e.Codigo == "" {
		e.Codigo = existing.Codigo
	}
	return s.establecimientos.Update(ctx, e)
}

// DeleteEstablecimiento soft-deletes: reference data is never removed.
func (s *Service) DeleteEstablecimiento(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEstablecimiento(ctx, id); err != nil {
		return err
	}
	return s.establecimientos.Deactivate(ctx, id)
}

// -- EsquemaTpt --

func (s *Service) CreateEsquema(ctx context.Context, e *EsquemaTpt) error {
	if e.Nombre == "" {
		return apperror.Validation("nombre_requerido", "El nombre es obligatorio")
	}
	if e.DuracionMeses <= 0 {
		return apperror.Validation("duracion_invalida", "La duración en meses debe ser mayor a cero")
	}
	return s.esquemas.Create(ctx, e)
}

func (s *Service) GetEsquema(ctx context.Context, id uuid.UUID) (*EsquemaTpt, error) {
	e, err := s.esquemas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("esquema_no_encontrado", "Esquema TPT no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return e, nil
}

func (s *Service) ListEsquemas(ctx context.Context, soloActivos bool, limit, offset int) ([]*EsquemaTpt, int, error) {
	return s.esquemas.List(ctx, soloActivos, limit, offset)
}

func (s *Service) UpdateEsquema(ctx context.Context, e *EsquemaTpt) error {
	existing, err := s.GetEsquema(ctx, e.ID)
	if err != nil {
		return err
	}
	if e.Nombre == "" {
		e.Nombre = existing.Nombre
	}
	if e.DuracionMeses <= 0 {
		e.DuracionMeses = existing.DuracionMeses
	}
	return s.esquemas.Update(ctx, e)
}

func (s *Service) DeleteEsquema(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEsquema(ctx, id); err != nil {
		return err
	}
	return s.esquemas.Deactivate(ctx, id)
}
