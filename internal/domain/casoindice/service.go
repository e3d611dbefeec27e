package casoindice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/catalogo"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type Service struct {
	repo    Repository
	catalog *catalogo.Service
}

func NewService(repo Repository, catalog *catalogo.Service) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) Create(ctx context.Context, caso *CasoIndice, userID string) error {
	if caso.Nombres == "" || caso.Apellidos == "" {
		return apperror.Validation("nombres_requeridos", "Nombres y apellidos son obligatorios")
	}
	if caso.DNI == "" {
		return apperror.Validation("dni_requerido", "El DNI es obligatorio")
	}
	if _, err := s.catalog.GetEstablecimiento(ctx, caso.EstablecimientoID); err != nil {
		return err
	}
	caso.UsuarioRegistroID = userID
	return s.repo.Create(ctx, caso)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CasoIndice, error) {
	caso, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("caso_no_encontrado", "Caso índice no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return caso, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*CasoIndice, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) Update(ctx context.Context, caso *CasoIndice) error {
	existing, err := s.GetByID(ctx, caso.ID)
	if err != nil {
		return err
	}
	if caso.Nombres == "" {
		caso.Nombres = existing.Nombres
	}
	if caso.Apellidos == "" {
		caso.Apellidos = existing.Apellidos
	}
	if caso.DNI == "" {
		caso.DNI = existing.DNI
	}
	if caso.EstablecimientoID == uuid.Nil {
		caso.EstablecimientoID = existing.EstablecimientoID
	} else if caso.EstablecimientoID != existing.EstablecimientoID {
		if _, err := s.catalog.GetEstablecimiento(ctx, caso.EstablecimientoID); err != nil {
			return err
		}
	}
	caso.UsuarioRegistroID = existing.UsuarioRegistroID
	caso.Activo = existing.Activo
	return s.repo.Update(ctx, caso)
}

// Delete soft-deletes the case; contact history must survive.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}
