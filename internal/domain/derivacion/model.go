package derivacion

import (
	"time"

	"github.com/google/uuid"
)

const (
	EstadoPendiente  = "Pendiente"
	EstadoAceptada   = "Aceptada"
	EstadoRechazada  = "Rechazada"
	EstadoCompletada = "Completada"
)

// Derivacion transfiere el seguimiento de un contacto entre
// establecimientos de salud.
type Derivacion struct {
	ID                       uuid.UUID  `json:"id"`
	ContactoID               uuid.UUID  `json:"contacto_id"`
	EstablecimientoOrigenID  uuid.UUID  `json:"establecimiento_origen_id"`
	EstablecimientoDestinoID uuid.UUID  `json:"establecimiento_destino_id"`
	Motivo                   string     `json:"motivo"`
	Estado                   string     `json:"estado"`
	FechaDerivacion          time.Time  `json:"fecha_derivacion"`
	FechaAceptacion          *time.Time `json:"fecha_aceptacion"`
	UsuarioDerivaID          string     `json:"usuario_deriva_id"`
	UsuarioAceptaID          *string    `json:"usuario_acepta_id"`
	Observaciones            *string    `json:"observaciones"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

type Filter struct {
	Estado                   string
	ContactoID               *uuid.UUID
	EstablecimientoOrigenID  *uuid.UUID
	EstablecimientoDestinoID *uuid.UUID
}

func ValidEstado(estado string) bool {
	switch estado {
	case EstadoPendiente, EstadoAceptada, EstadoRechazada, EstadoCompletada:
		return true
	}
	return false
}
