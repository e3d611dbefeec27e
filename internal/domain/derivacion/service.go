package derivacion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/catalogo"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/contacto"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type Service struct {
	repo      Repository
	contactos *contacto.Service
	catalog   *catalogo.Service
}

func NewService(repo Repository, contactos *contacto.Service, catalog *catalogo.Service) *Service {
	return &Service{repo: repo, contactos: contactos, catalog: catalog}
}

func (s *Service) Create(ctx context.Context, d *Derivacion, userID string) error {
	if d.Motivo == "" {
		return apperror.Validation("motivo_requerido", "El motivo de la derivación es obligatorio")
	}
	if d.EstablecimientoOrigenID == d.EstablecimientoDestinoID {
		return apperror.Validation("derivacion_mismo_establecimiento",
			"El establecimiento de origen y destino no pueden ser el mismo")
	}
	if _, err := s.contactos.GetByID(ctx, d.ContactoID); err != nil {
		return err
	}
	if _, err := s.catalog.GetEstablecimiento(ctx, d.EstablecimientoOrigenID); err != nil {
		return err
	}
	if _, err := s.catalog.GetEstablecimiento(ctx, d.EstablecimientoDestinoID); err != nil {
		return err
	}
	d.Estado = EstadoPendiente
	if d.FechaDerivacion.IsZero() {
		d.FechaDerivacion = time.Now()
	}
	d.UsuarioDerivaID = userID
	return s.repo.Create(ctx, d)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Derivacion, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("derivacion_no_encontrada", "Derivación no encontrada")
		}
		return nil, apperror.Internal(err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Derivacion, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Update patches motivo, observaciones y estado. Aceptada y Rechazada se
// alcanzan solo mediante aceptar/rechazar.
func (s *Service) Update(ctx context.Context, d *Derivacion) error {
	existing, err := s.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if d.Motivo == "" {
		d.Motivo = existing.Motivo
	}
	if d.Estado == "" {
		d.Estado = existing.Estado
	} else if d.Estado != existing.Estado {
		if !ValidEstado(d.Estado) {
			return apperror.Validation("estado_invalido", "Estado de derivación inválido: '%s'", d.Estado)
		}
		if d.Estado == EstadoAceptada || d.Estado == EstadoRechazada {
			return apperror.Validation("transicion_invalida",
				"Use las operaciones aceptar o rechazar para cambiar a '%s'", d.Estado)
		}
	}
	if d.Observaciones == nil {
		d.Observaciones = existing.Observaciones
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Aceptar(ctx context.Context, id uuid.UUID, userID string) (*Derivacion, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.Aceptar(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("derivacion_no_pendiente",
			"Solo se pueden aceptar derivaciones en estado 'Pendiente'")
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Rechazar(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (*Derivacion, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.Rechazar(ctx, id, userID, observaciones)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("derivacion_no_pendiente",
			"Solo se pueden rechazar derivaciones en estado 'Pendiente'")
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
