package catalogo

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	audit.Declare("/api/establecimientos", "establecimiento")
	audit.Declare("/api/esquemas-tpt", "esquema_tpt")

	api.POST("/establecimientos", h.CreateEstablecimiento)
	api.GET("/establecimientos", h.ListEstablecimientos)
	api.GET("/establecimientos/:id", h.GetEstablecimiento)
	api.PUT("/establecimientos/:id", h.UpdateEstablecimiento)
	api.DELETE("/establecimientos/:id", h.DeleteEstablecimiento)

	api.POST("/esquemas-tpt", h.CreateEsquema)
	api.GET("/esquemas-tpt", h.ListEsquemas)
	api.GET("/esquemas-tpt/:id", h.GetEsquema)
	api.PUT("/esquemas-tpt/:id", h.UpdateEsquema)
	api.DELETE("/esquemas-tpt/:id", h.DeleteEsquema)
}

// -- Establecimiento --

func (h *Handler) CreateEstablecimiento(c echo.Context) error {
	var e Establecimiento
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEstablecimiento(c.Request().Context(), &e); err != nil {
		return err
	}
	return respond.Created(c, e)
}

func (h *Handler) GetEstablecimiento(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	e, err := h.svc.GetEstablecimiento(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, e)
}

func (h *Handler) ListEstablecimientos(c echo.Context) error {
	pg := pagination.FromContext(c)
	soloActivos := c.QueryParam("activo") != "false"
	items, total, err := h.svc.ListEstablecimientos(c.Request().Context(), soloActivos, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) UpdateEstablecimiento(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var e Establecimiento
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateEstablecimiento(c.Request().Context(), &e); err != nil {
		return err
	}
	return respond.OK(c, e)
}

func (h *Handler) DeleteEstablecimiento(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.DeleteEstablecimiento(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Establecimiento desactivado correctamente")
}

// -- EsquemaTpt --

func (h *Handler) CreateEsquema(c echo.Context) error {
	var e EsquemaTpt
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEsquema(c.Request().Context(), &e); err != nil {
		return err
	}
	return respond.Created(c, e)
}

func (h *Handler) GetEsquema(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	e, err := h.svc.GetEsquema(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, e)
}

func (h *Handler) ListEsquemas(c echo.Context) error {
	pg := pagination.FromContext(c)
	soloActivos := c.QueryParam("activo") != "false"
	items, total, err := h.svc.ListEsquemas(c.Request().Context(), soloActivos, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) UpdateEsquema(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var e EsquemaTpt
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateEsquema(c.Request().Context(), &e); err != nil {
		return err
	}
	return respond.OK(c, e)
}

func (h *Handler) DeleteEsquema(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.DeleteEsquema(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Esquema TPT desactivado correctamente")
}
