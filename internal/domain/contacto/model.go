// Package contacto manages persons exposed to an index case.
package contacto

import (
	"time"

	"github.com/google/uuid"
)

// Contact exposure types.
const (
	TipoIntradomiciliario = "Intradomiciliario"
	TipoExtradomiciliario = "Extradomiciliario"
)

// Contacto maps to the contacto table. Rows are soft-deleted via Activo;
// clinical history must never lose its subject.
type Contacto struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	CasoIndiceID      uuid.UUID  `db:"caso_indice_id" json:"caso_indice_id"`
	Nombres           string     `db:"nombres" json:"nombres"`
	Apellidos         string     `db:"apellidos" json:"apellidos"`
	DNI               string     `db:"dni" json:"dni"`
	FechaNacimiento   *time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento,omitempty"`
	TipoContacto      string     `db:"tipo_contacto" json:"tipo_contacto"`
	EstablecimientoID uuid.UUID  `db:"establecimiento_id" json:"establecimiento_id"`
	UsuarioRegistroID string     `db:"usuario_registro_id" json:"usuario_registro_id"`
	Activo            bool       `db:"activo" json:"activo"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Filter narrows contact listings.
type Filter struct {
	CasoIndiceID      *uuid.UUID
	EstablecimientoID *uuid.UUID
	TipoContacto      string
	SoloActivos       bool
}
