package alerta

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
	audit.Declare("/api/alertas", "alerta")

	api.POST("/alertas", h.Create)
	api.GET("/alertas", h.List)
	api.GET("/alertas/:id", h.Get)
	api.PUT("/alertas/:id/resolver", h.Resolver)
	api.PUT("/alertas/:id", h.Update)
	api.DELETE("/alertas/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var a Alerta
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return err
	}
	return respond.Created(c, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	a, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Estado: c.QueryParam("estado"),
		Tipo:   c.QueryParam("tipo"),
	}
	if v := c.QueryParam("contacto_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "contacto_id inválido")
		}
		f.ContactoID = &id
	}
	if v := c.QueryParam("establecimiento_id"); v != "" {
		id, err := uuid.Parse(v)
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

func (h *Handler) Resolver(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var body struct {
		Observaciones *string `json:"observaciones"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Resolver(c.Request().Context(), id, userID, body.Observaciones)
	if err != nil {
		return err
	}
	return respond.OK(c, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var a Alerta
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return err
	}
	return respond.OK(c, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Alerta eliminada correctamente")
}
