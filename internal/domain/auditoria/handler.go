package auditoria

import (
	"github.com/labstack/echo/v4"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
	"github.com/HugoRoca/paper-tbc-web-sub001/pkg/pagination"
	"github.com/HugoRoca/paper-tbc-web-sub001/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes exposes the audit log read-only, admins only. The log
// itself never audits its own reads.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/auditoria", h.List, auth.RequireRole("admin"))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		UsuarioID: c.QueryParam("usuario_id"),
		Recurso:   c.QueryParam("recurso"),
		Accion:    c.QueryParam("accion"),
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}
