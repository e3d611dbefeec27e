package contacto

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/middleware"
	"github.com/HugoRoca/paper-tbc-web-sub001/pkg/pagination"
	"github.com/HugoRoca/paper-tbc-web-sub001/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, audit *middleware.AuditRegistry) {
	audit.Declare("/api/contactos", "contacto")

	api.POST("/contactos", h.Create)
	api.GET("/contactos", h.List)
	api.GET("/contactos/:id", h.Get)
	api.GET("/contactos/caso/:casoId", h.ListByCaso)
	api.PUT("/contactos/:id", h.Update)
	api.DELETE("/contactos/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var contacto Contacto
	if err := c.Bind(&contacto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &contacto, userID); err != nil {
		return err
	}
	return respond.Created(c, contacto)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	contacto, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, contacto)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		SoloActivos:  c.QueryParam("activo") != "false",
		TipoContacto: c.QueryParam("tipo_contacto"),
	}
	if caso := c.QueryParam("caso_indice_id"); caso != "" {
		id, err := uuid.Parse(caso)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "caso_indice_id inválido")
		}
		f.CasoIndiceID = &id
	}
	if est := c.QueryParam("establecimiento_id"); est != "" {
		id, err := uuid.Parse(est)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "establecimiento_id inválido")
		}
		f.EstablecimientoID = &id
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) ListByCaso(c echo.Context) error {
	casoID, err := uuid.Parse(c.Param("casoId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByCaso(c.Request().Context(), casoID, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var contacto Contacto
	if err := c.Bind(&contacto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	contacto.ID = id
	if err := h.svc.Update(c.Request().Context(), &contacto); err != nil {
		return err
	}
	return respond.OK(c, contacto)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Contacto eliminado correctamente")
}
