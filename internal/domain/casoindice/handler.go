package casoindice

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
	audit.Declare("/api/casos-indice", "caso_indice")

	api.POST("/casos-indice", h.Create)
	api.GET("/casos-indice", h.List)
	api.GET("/casos-indice/:id", h.Get)
	api.PUT("/casos-indice/:id", h.Update)
	api.DELETE("/casos-indice/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var caso CasoIndice
	if err := c.Bind(&caso); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &caso, userID); err != nil {
		return err
	}
	return respond.Created(c, caso)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	caso, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, caso)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{SoloActivos: c.QueryParam("activo") != "false", DNI: c.QueryParam("dni")}
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

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	var caso CasoIndice
	if err := c.Bind(&caso); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	caso.ID = id
	if err := h.svc.Update(c.Request().Context(), &caso); err != nil {
		return err
	}
	return respond.OK(c, caso)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Caso índice desactivado correctamente")
}
