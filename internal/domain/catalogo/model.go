// Package catalogo holds the reference data every clinical record points at:
// health facilities and TPT regimens.
package catalogo

import (
	"time"

	"github.com/google/uuid"
)

// Establecimiento maps to the establecimiento table (health facility).
type Establecimiento struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Codigo    string    `db:"codigo" json:"codigo"`
	Distrito  *string   `db:"distrito" json:"distrito,omitempty"`
	Activo    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EsquemaTpt maps to the esquema_tpt table (preventive-therapy regimen).
// DuracionMeses drives the expected end date of an indication.
type EsquemaTpt struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Nombre        string    `db:"nombre" json:"nombre"`
	Descripcion   *string   `db:"descripcion" json:"descripcion,omitempty"`
	DuracionMeses int       `db:"duracion_meses" json:"duracion_meses"`
	Activo        bool      `db:"activo" json:"activo"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
