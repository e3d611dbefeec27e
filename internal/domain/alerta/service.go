package alerta

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Alerta) error {
	if a.Tipo == "" {
		return apperror.Validation("tipo_requerido", "El tipo de alerta es obligatorio")
	}
	if a.Mensaje == "" {
		return apperror.Validation("mensaje_requerido", "El mensaje de la alerta es obligatorio")
	}
	if a.Estado == "" {
		a.Estado = EstadoActiva
	} else if !ValidEstado(a.Estado) {
		return apperror.Validation("estado_invalido", "Estado de alerta inválido: '%s'", a.Estado)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Alerta, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("alerta_no_encontrada", "Alerta no encontrada")
		}
		return nil, apperror.Internal(err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Alerta, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, a *Alerta) error {
	existing, err := s.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.Tipo == "" {
		a.Tipo = existing.Tipo
	}
	if a.Mensaje == "" {
		a.Mensaje = existing.Mensaje
	}
	if a.Estado == "" {
		a.Estado = existing.Estado
	} else if !ValidEstado(a.Estado) {
		return apperror.Validation("estado_invalido", "Estado de alerta inválido: '%s'", a.Estado)
	}
	return s.repo.Update(ctx, a)
}

// Resolver cierra la alerta. Una alerta ya resuelta no se puede volver a
// resolver; la primera resolución se conserva.
func (s *Service) Resolver(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (*Alerta, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.Resolver(ctx, id, userID, observaciones)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("alerta_resuelta", "La alerta ya está resuelta")
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
