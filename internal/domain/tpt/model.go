package tpt

import (
	"time"

	"github.com/google/uuid"
)

// Estados del ciclo de vida de una indicación TPT. "En curso" solo se
// alcanza mediante la operación iniciar.
const (
	EstadoIndicado   = "Indicado"
	EstadoEnCurso    = "En curso"
	EstadoCompletado = "Completado"
	EstadoSuspenso   = "Suspenso"
	EstadoAbandonado = "Abandonado"
)

const (
	SeveridadLeve     = "Leve"
	SeveridadModerada = "Moderada"
	SeveridadSevera   = "Severa"
	SeveridadGrave    = "Grave"
)

const (
	ResultadoEnSeguimiento = "En seguimiento"
	ResultadoResuelto      = "Resuelto"
	ResultadoPendiente     = "Pendiente"
)

// TptIndicacion es la prescripción de terapia preventiva para un contacto.
// FechaFinPrevista se deriva de FechaInicio más la duración en meses del
// esquema cada vez que se fija una fecha de inicio.
type TptIndicacion struct {
	ID                uuid.UUID  `json:"id"`
	ContactoID        uuid.UUID  `json:"contacto_id"`
	EsquemaID         uuid.UUID  `json:"esquema_id"`
	FechaIndicacion   time.Time  `json:"fecha_indicacion"`
	FechaInicio       *time.Time `json:"fecha_inicio"`
	FechaFinPrevista  *time.Time `json:"fecha_fin_prevista"`
	Estado            string     `json:"estado"`
	EstablecimientoID uuid.UUID  `json:"establecimiento_id"`
	UsuarioIndicaID   string     `json:"usuario_indica_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TptConsentimiento registra el consentimiento informado. Existe a lo sumo
// uno por indicación.
type TptConsentimiento struct {
	ID                    uuid.UUID `json:"id"`
	TptIndicacionID       uuid.UUID `json:"tpt_indicacion_id"`
	FechaConsentimiento   time.Time `json:"fecha_consentimiento"`
	ConsentimientoFirmado bool      `json:"consentimiento_firmado"`
	ArchivoPath           *string   `json:"archivo_path"`
	Observaciones         *string   `json:"observaciones"`
	UsuarioRegistroID     string    `json:"usuario_registro_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TptSeguimiento es un registro periódico de dosis y efectos adversos.
// Solo se crea mientras la indicación está "En curso".
type TptSeguimiento struct {
	ID                uuid.UUID `json:"id"`
	TptIndicacionID   uuid.UUID `json:"tpt_indicacion_id"`
	FechaSeguimiento  time.Time `json:"fecha_seguimiento"`
	DosisAdministrada bool      `json:"dosis_administrada"`
	EfectosAdversos   bool      `json:"efectos_adversos"`
	Observaciones     *string   `json:"observaciones"`
	EstablecimientoID uuid.UUID `json:"establecimiento_id"`
	UsuarioRegistroID string    `json:"usuario_registro_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ReaccionAdversa no depende del estado de la indicación.
type ReaccionAdversa struct {
	ID                uuid.UUID `json:"id"`
	TptIndicacionID   uuid.UUID `json:"tpt_indicacion_id"`
	FechaReaccion     time.Time `json:"fecha_reaccion"`
	TipoReaccion      string    `json:"tipo_reaccion"`
	Severidad         string    `json:"severidad"`
	Sintomas          *string   `json:"sintomas"`
	Resultado         string    `json:"resultado"`
	EstablecimientoID uuid.UUID `json:"establecimiento_id"`
	UsuarioRegistroID string    `json:"usuario_registro_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type IndicacionFilter struct {
	ContactoID        *uuid.UUID
	Estado            string
	EstablecimientoID *uuid.UUID
}

type SeguimientoFilter struct {
	TptIndicacionID   *uuid.UUID
	EstablecimientoID *uuid.UUID
	EfectosAdversos   *bool
	FechaDesde        *time.Time
	FechaHasta        *time.Time
}

type ReaccionFilter struct {
	TptIndicacionID   *uuid.UUID
	Severidad         string
	Resultado         string
	EstablecimientoID *uuid.UUID
}

func ValidEstado(estado string) bool {
	switch estado {
	case EstadoIndicado, EstadoEnCurso, EstadoCompletado, EstadoSuspenso, EstadoAbandonado:
		return true
	}
	return false
}

func ValidSeveridad(s string) bool {
	switch s {
	case SeveridadLeve, SeveridadModerada, SeveridadSevera, SeveridadGrave:
		return true
	}
	return false
}

func ValidResultado(r string) bool {
	switch r {
	case ResultadoEnSeguimiento, ResultadoResuelto, ResultadoPendiente:
		return true
	}
	return false
}
