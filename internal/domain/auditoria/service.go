package auditoria

import (
	"context"
	"time"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*RegistroAuditoria, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Record implements middleware.AuditRecorder. It runs after the response is
// written, so it uses its own short-lived context.
func (s *Service) Record(entry middleware.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reg := &RegistroAuditoria{
		UsuarioID:  entry.UserID,
		Recurso:    entry.Recurso,
		Accion:     entry.Accion,
		Metodo:     entry.Metodo,
		Ruta:       entry.Ruta,
		IP:         entry.IP,
		EstadoHTTP: entry.EstadoHTTP,
		Datos:      entry.Datos,
		RequestID:  entry.RequestID,
	}
	if entry.RegistroID != "" {
		id := entry.RegistroID
		reg.RegistroID = &id
	}
	return s.repo.Insert(ctx, reg)
}
