package auditoria

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RegistroAuditoria es una fila del registro de auditoría. Se escribe desde
// el middleware de auditoría y solo se consulta desde aquí.
type RegistroAuditoria struct {
	ID         uuid.UUID       `json:"id"`
	UsuarioID  string          `json:"usuario_id"`
	Recurso    string          `json:"recurso"`
	Accion     string          `json:"accion"`
	RegistroID *string         `json:"registro_id"`
	Metodo     string          `json:"metodo"`
	Ruta       string          `json:"ruta"`
	IP         string          `json:"ip"`
	EstadoHTTP int             `json:"estado_http"`
	Datos      json.RawMessage `json:"datos"`
	RequestID  string          `json:"request_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Filter struct {
	UsuarioID string
	Recurso   string
	Accion    string
}
