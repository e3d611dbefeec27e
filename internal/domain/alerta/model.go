package alerta

import (
	"time"

	"github.com/google/uuid"
)

const (
	EstadoActiva     = "Activa"
	EstadoEnRevision = "En revisión"
	EstadoResuelta   = "Resuelta"
	EstadoDescartada = "Descartada"
)

// Alerta puede referirse a un contacto, un caso índice o una indicación TPT,
// de ahí las claves foráneas opcionales.
type Alerta struct {
	ID                uuid.UUID  `json:"id"`
	Tipo              string     `json:"tipo"`
	Mensaje           string     `json:"mensaje"`
	Estado            string     `json:"estado"`
	ContactoID        *uuid.UUID `json:"contacto_id"`
	CasoIndiceID      *uuid.UUID `json:"caso_indice_id"`
	TptIndicacionID   *uuid.UUID `json:"tpt_indicacion_id"`
	EstablecimientoID uuid.UUID  `json:"establecimiento_id"`
	FechaResolucion   *time.Time `json:"fecha_resolucion"`
	UsuarioResuelveID *string    `json:"usuario_resuelve_id"`
	Observaciones     *string    `json:"observaciones"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Filter struct {
	Estado            string
	Tipo              string
	ContactoID        *uuid.UUID
	EstablecimientoID *uuid.UUID
}

func ValidEstado(estado string) bool {
	switch estado {
	case EstadoActiva, EstadoEnRevision, EstadoResuelta, EstadoDescartada:
		return true
	}
	return false
}
