package tpt

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

// Transiciones admitidas cuando el modo estricto está activo. "En curso"
// queda fuera a propósito: solo se alcanza mediante iniciar.
var transicionesEstado = map[string][]string{
	EstadoIndicado: {EstadoSuspenso, EstadoAbandonado},
	EstadoEnCurso:  {EstadoCompletado, EstadoSuspenso, EstadoAbandonado},
}

type Service struct {
	indicaciones    IndicacionRepository
	consentimientos ConsentimientoRepository
	seguimientos    SeguimientoRepository
	reacciones      ReaccionRepository
	contactos       *contacto.Service
	catalog         *catalogo.Service
	strictEstados   bool
}

func NewService(
	indicaciones IndicacionRepository,
	consentimientos ConsentimientoRepository,
	seguimientos SeguimientoRepository,
	reacciones ReaccionRepository,
	contactos *contacto.Service,
	catalog *catalogo.Service,
	strictEstados bool,
) *Service {
	return &Service{
		indicaciones:    indicaciones,
		consentimientos: consentimientos,
		seguimientos:    seguimientos,
		reacciones:      reacciones,
		contactos:       contactos,
		catalog:         catalog,
		strictEstados:   strictEstados,
	}
}

func finPrevista(inicio time.Time, esquema *catalogo.EsquemaTpt) time.Time {
	return inicio.AddDate(0, esquema.DuracionMeses, 0)
}

// ---- Indicaciones ----

func (s *Service) CreateIndicacion(ctx context.Context, ind *TptIndicacion, userID string) error {
	if _, err := s.contactos.GetByID(ctx, ind.ContactoID); err != nil {
		return err
	}
	esquema, err := s.catalog.GetEsquema(ctx, ind.EsquemaID)
	if err != nil {
		return err
	}
	if ind.Estado == "" {
		ind.Estado = EstadoIndicado
	} else if !ValidEstado(ind.Estado) {
		return apperror.Validation("estado_invalido", "Estado de TPT inválido: '%s'", ind.Estado)
	}
	if ind.FechaIndicacion.IsZero() {
		ind.FechaIndicacion = time.Now()
	}
	if ind.FechaInicio != nil && ind.FechaFinPrevista == nil {
		fin := finPrevista(*ind.FechaInicio, esquema)
		ind.FechaFinPrevista = &fin
	}
	ind.UsuarioIndicaID = userID
	return s.indicaciones.Create(ctx, ind)
}

func (s *Service) GetIndicacion(ctx context.Context, id uuid.UUID) (*TptIndicacion, error) {
	ind, err := s.indicaciones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("tpt_indicacion_no_encontrada", "Indicación TPT no encontrada")
		}
		return nil, apperror.Internal(err)
	}
	return ind, nil
}

func (s *Service) ListIndicaciones(ctx context.Context, f IndicacionFilter, limit, offset int) ([]*TptIndicacion, int, error) {
	return s.indicaciones.List(ctx, f, limit, offset)
}

func (s *Service) ListIndicacionesByContacto(ctx context.Context, contactoID uuid.UUID, limit, offset int) ([]*TptIndicacion, int, error) {
	if _, err := s.contactos.GetByID(ctx, contactoID); err != nil {
		return nil, 0, err
	}
	return s.indicaciones.ListByContacto(ctx, contactoID, limit, offset)
}

// Iniciar is the single guarded transition: Indicado pasa a "En curso" y la
// fecha de fin prevista se recalcula con la duración del esquema.
func (s *Service) Iniciar(ctx context.Context, id uuid.UUID, fechaInicio time.Time) (*TptIndicacion, error) {
	ind, err := s.GetIndicacion(ctx, id)
	if err != nil {
		return nil, err
	}
	esquema, err := s.catalog.GetEsquema(ctx, ind.EsquemaID)
	if err != nil {
		return nil, err
	}
	ok, err := s.indicaciones.Iniciar(ctx, id, fechaInicio, finPrevista(fechaInicio, esquema))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("tpt_no_indicado", "Solo se pueden iniciar TPT en estado 'Indicado'")
	}
	return s.GetIndicacion(ctx, id)
}

func (s *Service) UpdateIndicacion(ctx context.Context, ind *TptIndicacion) error {
	existing, err := s.GetIndicacion(ctx, ind.ID)
	if err != nil {
		return err
	}
	if ind.Estado == "" {
		ind.Estado = existing.Estado
	} else if ind.Estado != existing.Estado {
		if !ValidEstado(ind.Estado) {
			return apperror.Validation("estado_invalido", "Estado de TPT inválido: '%s'", ind.Estado)
		}
		if s.strictEstados && !transicionPermitida(existing.Estado, ind.Estado) {
			return apperror.Validation("transicion_invalida",
				"Transición de estado no permitida: de '%s' a '%s'", existing.Estado, ind.Estado)
		}
	}
	if ind.EsquemaID == uuid.Nil {
		ind.EsquemaID = existing.EsquemaID
	} else if ind.EsquemaID != existing.EsquemaID {
		if _, err := s.catalog.GetEsquema(ctx, ind.EsquemaID); err != nil {
			return err
		}
	}
	if ind.EstablecimientoID == uuid.Nil {
		ind.EstablecimientoID = existing.EstablecimientoID
	}
	if ind.FechaIndicacion.IsZero() {
		ind.FechaIndicacion = existing.FechaIndicacion
	}
	if ind.FechaInicio == nil {
		ind.FechaInicio = existing.FechaInicio
		if ind.FechaFinPrevista == nil {
			ind.FechaFinPrevista = existing.FechaFinPrevista
		}
	} else if ind.FechaFinPrevista == nil {
		esquema, err := s.catalog.GetEsquema(ctx, ind.EsquemaID)
		if err != nil {
			return err
		}
		fin := finPrevista(*ind.FechaInicio, esquema)
		ind.FechaFinPrevista = &fin
	}
	ind.ContactoID = existing.ContactoID
	ind.UsuarioIndicaID = existing.UsuarioIndicaID
	return s.indicaciones.Update(ctx, ind)
}

func transicionPermitida(desde, hasta string) bool {
	for _, estado := range transicionesEstado[desde] {
		if estado == hasta {
			return true
		}
	}
	return false
}

func (s *Service) DeleteIndicacion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetIndicacion(ctx, id); err != nil {
		return err
	}
	return s.indicaciones.Delete(ctx, id)
}

// ---- Consentimientos ----

func (s *Service) CreateConsentimiento(ctx context.Context, cons *TptConsentimiento, userID string) error {
	if _, err := s.GetIndicacion(ctx, cons.TptIndicacionID); err != nil {
		return err
	}
	if cons.FechaConsentimiento.IsZero() {
		cons.FechaConsentimiento = time.Now()
	}
	cons.UsuarioRegistroID = userID
	inserted, err := s.consentimientos.Create(ctx, cons)
	if err != nil {
		return err
	}
	if !inserted {
		return apperror.Conflict("consentimiento_duplicado",
			"Ya existe un consentimiento para esta indicación TPT")
	}
	return nil
}

func (s *Service) GetConsentimiento(ctx context.Context, id uuid.UUID) (*TptConsentimiento, error) {
	cons, err := s.consentimientos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("consentimiento_no_encontrado", "Consentimiento no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return cons, nil
}

func (s *Service) GetConsentimientoByIndicacion(ctx context.Context, indicacionID uuid.UUID) (*TptConsentimiento, error) {
	cons, err := s.consentimientos.GetByIndicacion(ctx, indicacionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("consentimiento_no_encontrado",
				"No existe consentimiento para esta indicación TPT")
		}
		return nil, apperror.Internal(err)
	}
	return cons, nil
}

func (s *Service) ListConsentimientos(ctx context.Context, limit, offset int) ([]*TptConsentimiento, int, error) {
	return s.consentimientos.List(ctx, limit, offset)
}

func (s *Service) UpdateConsentimiento(ctx context.Context, cons *TptConsentimiento) error {
	existing, err := s.GetConsentimiento(ctx, cons.ID)
	if err != nil {
		return err
	}
	cons.TptIndicacionID = existing.TptIndicacionID
	if cons.FechaConsentimiento.IsZero() {
		cons.FechaConsentimiento = existing.FechaConsentimiento
	}
	return s.consentimientos.Update(ctx, cons)
}

func (s *Service) DeleteConsentimiento(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetConsentimiento(ctx, id); err != nil {
		return err
	}
	return s.consentimientos.Delete(ctx, id)
}

// ---- Seguimientos ----

func (s *Service) CreateSeguimiento(ctx context.Context, seg *TptSeguimiento, userID string) error {
	if _, err := s.GetIndicacion(ctx, seg.TptIndicacionID); err != nil {
		return err
	}
	if seg.FechaSeguimiento.IsZero() {
		seg.FechaSeguimiento = time.Now()
	}
	seg.UsuarioRegistroID = userID
	inserted, err := s.seguimientos.CreateEnCurso(ctx, seg)
	if err != nil {
		return err
	}
	if !inserted {
		return apperror.Conflict("tpt_no_en_curso", "Solo se puede hacer seguimiento a TPT en curso")
	}
	return nil
}

func (s *Service) GetSeguimiento(ctx context.Context, id uuid.UUID) (*TptSeguimiento, error) {
	seg, err := s.seguimientos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("seguimiento_no_encontrado", "Seguimiento no encontrado")
		}
		return nil, apperror.Internal(err)
	}
	return seg, nil
}

func (s *Service) ListSeguimientos(ctx context.Context, f SeguimientoFilter, limit, offset int) ([]*TptSeguimiento, int, error) {
	return s.seguimientos.List(ctx, f, limit, offset)
}

func (s *Service) ListSeguimientosByIndicacion(ctx context.Context, indicacionID uuid.UUID, limit, offset int) ([]*TptSeguimiento, int, error) {
	if _, err := s.GetIndicacion(ctx, indicacionID); err != nil {
		return nil, 0, err
	}
	return s.seguimientos.ListByIndicacion(ctx, indicacionID, limit, offset)
}

func (s *Service) UpdateSeguimiento(ctx context.Context, seg *TptSeguimiento) error {
	existing, err := s.GetSeguimiento(ctx, seg.ID)
	if err != nil {
		return err
	}
	seg.TptIndicacionID = existing.TptIndicacionID
	if seg.FechaSeguimiento.IsZero() {
		seg.FechaSeguimiento = existing.FechaSeguimiento
	}
	if seg.EstablecimientoID == uuid.Nil {
		seg.EstablecimientoID = existing.EstablecimientoID
	}
	return s.seguimientos.Update(ctx, seg)
}

func (s *Service) DeleteSeguimiento(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSeguimiento(ctx, id); err != nil {
		return err
	}
	return s.seguimientos.Delete(ctx, id)
}

// ---- Reacciones adversas ----

func (s *Service) CreateReaccion(ctx context.Context, ra *ReaccionAdversa, userID string) error {
	if _, err := s.GetIndicacion(ctx, ra.TptIndicacionID); err != nil {
		return err
	}
	if ra.TipoReaccion == "" {
		return apperror.Validation("tipo_reaccion_requerido", "El tipo de reacción es obligatorio")
	}
	if !ValidSeveridad(ra.Severidad) {
		return apperror.Validation("severidad_invalida", "Severidad inválida: '%s'", ra.Severidad)
	}
	if ra.Resultado == "" {
		ra.Resultado = ResultadoPendiente
	} else if !ValidResultado(ra.Resultado) {
		return apperror.Validation("resultado_invalido", "Resultado inválido: '%s'", ra.Resultado)
	}
	if ra.FechaReaccion.IsZero() {
		ra.FechaReaccion = time.Now()
	}
	ra.UsuarioRegistroID = userID
	return s.reacciones.Create(ctx, ra)
}

func (s *Service) GetReaccion(ctx context.Context, id uuid.UUID) (*ReaccionAdversa, error) {
	ra, err := s.reacciones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("reaccion_no_encontrada", "Reacción adversa no encontrada")
		}
		return nil, apperror.Internal(err)
	}
	return ra, nil
}

func (s *Service) ListReacciones(ctx context.Context, f ReaccionFilter, limit, offset int) ([]*ReaccionAdversa, int, error) {
	return s.reacciones.List(ctx, f, limit, offset)
}

func (s *Service) UpdateReaccion(ctx context.Context, ra *ReaccionAdversa) error {
	existing, err := s.GetReaccion(ctx, ra.ID)
	if err != nil {
		return err
	}
	ra.TptIndicacionID = existing.TptIndicacionID
	if ra.TipoReaccion == "" {
		ra.TipoReaccion = existing.TipoReaccion
	}
	if ra.Severidad == "" {
		ra.Severidad = existing.Severidad
	} else if !ValidSeveridad(ra.Severidad) {
		return apperror.Validation("severidad_invalida", "Severidad inválida: '%s'", ra.Severidad)
	}
	if ra.Resultado == "" {
		ra.Resultado = existing.Resultado
	} else if !ValidResultado(ra.Resultado) {
		return apperror.Validation("resultado_invalido", "Resultado inválido: '%s'", ra.Resultado)
	}
	if ra.FechaReaccion.IsZero() {
		ra.FechaReaccion = existing.FechaReaccion
	}
	if ra.EstablecimientoID == uuid.Nil {
		ra.EstablecimientoID = existing.EstablecimientoID
	}
	return s.reacciones.Update(ctx, ra)
}

func (s *Service) DeleteReaccion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetReaccion(ctx, id); err != nil {
		return err
	}
	return s.reacciones.Delete(ctx, id)
}
