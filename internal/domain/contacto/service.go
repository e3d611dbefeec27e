package contacto

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/casoindice"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/catalogo"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type Service struct {
	repo    Repository
	casos   *casoindice.Service
	catalog *catalogo.Service
}

func NewService(repo Repository, casos *casoindice.Service, catalog *catalogo.Service) *Service {
	return &Service{repo: repo, casos: casos, catalog: catalog}
}

func validTipoContacto(tipo string) bool {
	return tipo == TipoIntradomiciliario || tipo == TipoExtradomiciliario
}

func (s *Service) Create(ctx context.Context, contacto *Contacto, userID string) error {
	if contacto.Nombres == "" || contacto.Apellidos == "" {
		return apperror.Validation("nombres_requeridos", "Nombres y apellidos son obligatorios")
	}
	if contacto.DNI == "" {
		return apperror.Validation("dni_requerido", "El DNI es obligatorio")
	}
	if !validTipoContacto(contacto.TipoContacto) {
		return apperror.Validation("tipo_contacto_invalido",
			"El tipo de contacto debe ser '%s' o '%s'", TipoIntradomiciliario, TipoExtradomiciliario)
	}
	if _, err := s.casos.GetByID(ctx, contacto.CasoIndiceID); err != nil {
		return err
	}
	if _, err := s.catalog.GetEstablecimiento(ctx, contacto.EstablecimientoID); err != nil {
		return err
	}
	contacto.UsuarioRegistroID = userID
	return s.repo.Create(ctx, contacto)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Contacto, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("contacto_no_encontrado", "Contacto no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Contacto, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) ListByCaso(ctx context.Context, casoID uuid.UUID, limit, offset int) ([]*Contacto, int, error) {
	if _, err := s.casos.GetByID(ctx, casoID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByCaso(ctx, casoID, limit, offset)
}

// Update patches mutable fields. The caso_indice_id link is fixed at
// creation and silently preserved.
func (s *Service) Update(ctx context.Context, contacto *Contacto) error {
	existing, err := s.GetByID(ctx, contacto.ID)
	if err != nil {
		return err
	}
	contacto.CasoIndiceID = existing.CasoIndiceID
	if contacto.Nombres == "" {
		contacto.Nombres = existing.Nombres
	}
	if contacto.Apellidos == "" {
		contacto.Apellidos = existing.Apellidos
	}
	if contacto.DNI == "" {
		contacto.DNI = existing.DNI
	}
	if contacto.TipoContacto == "" {
		contacto.TipoContacto = existing.TipoContacto
	} else if !validTipoContacto(contacto.TipoContacto) {
		return apperror.Validation("tipo_contacto_invalido",
			"El tipo de contacto debe ser '%s' o '%s'", TipoIntradomiciliario, TipoExtradomiciliario)
	}
	if contacto.EstablecimientoID == uuid.Nil {
		contacto.EstablecimientoID = existing.EstablecimientoID
	} else if contacto.EstablecimientoID != existing.EstablecimientoID {
		if _, err := s.catalog.GetEstablecimiento(ctx, contacto.EstablecimientoID); err != nil {
			return err
		}
	}
	contacto.UsuarioRegistroID = existing.UsuarioRegistroID
	contacto.Activo = existing.Activo
	return s.repo.Update(ctx, contacto)
}

// Delete soft-deletes the contact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}
