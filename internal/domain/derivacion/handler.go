package derivacion

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
	audit.Declare("/api/derivaciones", "derivacion")

	api.POST("/derivaciones", h.Create)
	api.GET("/derivaciones", h.List)
	api.GET("/derivaciones/:id", h.Get)
	api.PUT("/derivaciones/:id/aceptar", h.Aceptar)
	api.PUT("/derivaciones/:id/rechazar", h.Rechazar)
	api.PUT("/derivaciones/:id", h.Update)
	api.DELETE("/derivaciones/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var d Derivacion
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &d, userID); err != nil {
		return err
	}
	return respond.Created(c, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	d, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, d)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{Estado: c.QueryParam("estado")}
	if v := c.QueryParam("contacto_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "contacto_id inválido")
		}
		f.ContactoID = &id
	}
	if v := c.QueryParam("establecimiento_origen_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "establecimiento_origen_id inválido")
		}
		f.EstablecimientoOrigenID = &id
	}
	if v := c.QueryParam("establecimiento_destino_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "establecimiento_destino_id inválido")
		}
		f.EstablecimientoDestinoID = &id
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) Aceptar(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	d, err := h.svc.Aceptar(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	return respond.OK(c, d)
}

func (h *Handler) Rechazar(c echo.Context) error {
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
	d, err := h.svc.Rechazar(c.Request().Context(), id, userID, body.Observaciones)
	if err != nil {
		return err
	}
	return respond.OK(c, d)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var d Derivacion
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		return err
	}
	return respond.OK(c, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Derivación eliminada correctamente")
}
