// Package casoindice manages index TB cases, the patients from whom
// contacts are traced.
package casoindice

import (
	"time"

	"github.com/google/uuid"
)

// CasoIndice maps to the caso_indice table.
type CasoIndice struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Nombres            string     `db:"nombres" json:"nombres"`
	Apellidos          string     `db:"apellidos" json:"apellidos"`
	DNI                string     `db:"dni" json:"dni"`
	FechaDiagnostico   *time.Time `db:"fecha_diagnostico" json:"fecha_diagnostico,omitempty"`
	TipoTB             *string    `db:"tipo_tb" json:"tipo_tb,omitempty"`
	EstablecimientoID  uuid.UUID  `db:"establecimiento_id" json:"establecimiento_id"`
	UsuarioRegistroID  string     `db:"usuario_registro_id" json:"usuario_registro_id"`
	Activo             bool       `db:"activo" json:"activo"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Filter narrows case listings.
type Filter struct {
	EstablecimientoID *uuid.UUID
	DNI               string
	SoloActivos       bool
}
