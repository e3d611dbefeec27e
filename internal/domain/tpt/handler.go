package tpt

import (
	"net/http"
	"strconv"
	"time"

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
	audit.Declare("/api/tpt-indicaciones", "tpt_indicacion")
	audit.Declare("/api/tpt-consentimientos", "tpt_consentimiento")
	audit.Declare("/api/tpt-seguimiento", "tpt_seguimiento")
	audit.Declare("/api/reacciones-adversas", "reaccion_adversa")

	api.POST("/tpt-indicaciones", h.CreateIndicacion)
	api.GET("/tpt-indicaciones", h.ListIndicaciones)
	api.GET("/tpt-indicaciones/contacto/:contactoId", h.ListIndicacionesByContacto)
	api.GET("/tpt-indicaciones/:id", h.GetIndicacion)
	api.PUT("/tpt-indicaciones/:id/iniciar", h.Iniciar)
	api.PUT("/tpt-indicaciones/:id", h.UpdateIndicacion)
	api.DELETE("/tpt-indicaciones/:id", h.DeleteIndicacion)

	api.POST("/tpt-consentimientos", h.CreateConsentimiento)
	api.GET("/tpt-consentimientos", h.ListConsentimientos)
	api.GET("/tpt-consentimientos/tpt-indicacion/:id", h.GetConsentimientoByIndicacion)
	api.GET("/tpt-consentimientos/:id", h.GetConsentimiento)
	api.PUT("/tpt-consentimientos/:id", h.UpdateConsentimiento)
	api.DELETE("/tpt-consentimientos/:id", h.DeleteConsentimiento)

	api.POST("/tpt-seguimiento", h.CreateSeguimiento)
	api.GET("/tpt-seguimiento", h.ListSeguimientos)
	api.GET("/tpt-seguimiento/tpt-indicacion/:id", h.ListSeguimientosByIndicacion)
	api.GET("/tpt-seguimiento/:id", h.GetSeguimiento)
	api.PUT("/tpt-seguimiento/:id", h.UpdateSeguimiento)
	api.DELETE("/tpt-seguimiento/:id", h.DeleteSeguimiento)

	api.POST("/reacciones-adversas", h.CreateReaccion)
	api.GET("/reacciones-adversas", h.ListReacciones)
	api.GET("/reacciones-adversas/:id", h.GetReaccion)
	api.PUT("/reacciones-adversas/:id", h.UpdateReaccion)
	api.DELETE("/reacciones-adversas/:id", h.DeleteReaccion)
}

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	return id, nil
}

// ---- Indicaciones ----

func (h *Handler) CreateIndicacion(c echo.Context) error {
	var ind TptIndicacion
	if err := c.Bind(&ind); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.CreateIndicacion(c.Request().Context(), &ind, userID); err != nil {
		return err
	}
	return respond.Created(c, ind)
}

func (h *Handler) GetIndicacion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ind, err := h.svc.GetIndicacion(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, ind)
}

func (h *Handler) ListIndicaciones(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := IndicacionFilter{Estado: c.QueryParam("estado")}
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
	items, total, err := h.svc.ListIndicaciones(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) ListIndicacionesByContacto(c echo.Context) error {
	contactoID, err := parseID(c, "contactoId")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListIndicacionesByContacto(c.Request().Context(), contactoID, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) Iniciar(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body struct {
		FechaInicio time.Time `json:"fecha_inicio"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.FechaInicio.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "La fecha de inicio es obligatoria")
	}
	ind, err := h.svc.Iniciar(c.Request().Context(), id, body.FechaInicio)
	if err != nil {
		return err
	}
	return respond.OK(c, ind)
}

func (h *Handler) UpdateIndicacion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var ind TptIndicacion
	if err := c.Bind(&ind); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ind.ID = id
	if err := h.svc.UpdateIndicacion(c.Request().Context(), &ind); err != nil {
		return err
	}
	return respond.OK(c, ind)
}

func (h *Handler) DeleteIndicacion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteIndicacion(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Indicación TPT eliminada correctamente")
}

// ---- Consentimientos ----

func (h *Handler) CreateConsentimiento(c echo.Context) error {
	var cons TptConsentimiento
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.CreateConsentimiento(c.Request().Context(), &cons, userID); err != nil {
		return err
	}
	return respond.Created(c, cons)
}

func (h *Handler) GetConsentimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cons, err := h.svc.GetConsentimiento(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, cons)
}

func (h *Handler) GetConsentimientoByIndicacion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cons, err := h.svc.GetConsentimientoByIndicacion(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, cons)
}

func (h *Handler) ListConsentimientos(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListConsentimientos(c.Request().Context(), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) UpdateConsentimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var cons TptConsentimiento
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cons.ID = id
	if err := h.svc.UpdateConsentimiento(c.Request().Context(), &cons); err != nil {
		return err
	}
	return respond.OK(c, cons)
}

func (h *Handler) DeleteConsentimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteConsentimiento(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Consentimiento eliminado correctamente")
}

// ---- Seguimientos ----

func (h *Handler) CreateSeguimiento(c echo.Context) error {
	var seg TptSeguimiento
	if err := c.Bind(&seg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.CreateSeguimiento(c.Request().Context(), &seg, userID); err != nil {
		return err
	}
	return respond.Created(c, seg)
}

func (h *Handler) GetSeguimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	seg, err := h.svc.GetSeguimiento(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, seg)
}

func (h *Handler) ListSeguimientos(c echo.Context) error {
	pg := pagination.FromContext(c)
	var f SeguimientoFilter
	if v := c.QueryParam("tpt_indicacion_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "tpt_indicacion_id inválido")
		}
		f.TptIndicacionID = &id
	}
	if v := c.QueryParam("establecimiento_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "establecimiento_id inválido")
		}
		f.EstablecimientoID = &id
	}
	if v := c.QueryParam("efectos_adversos"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "efectos_adversos inválido")
		}
		f.EfectosAdversos = &b
	}
	if v := c.QueryParam("fecha_desde"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "fecha_desde inválida")
		}
		f.FechaDesde = &t
	}
	if v := c.QueryParam("fecha_hasta"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "fecha_hasta inválida")
		}
		f.FechaHasta = &t
	}
	items, total, err := h.svc.ListSeguimientos(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) ListSeguimientosByIndicacion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSeguimientosByIndicacion(c.Request().Context(), id, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) UpdateSeguimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var seg TptSeguimiento
	if err := c.Bind(&seg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	seg.ID = id
	if err := h.svc.UpdateSeguimiento(c.Request().Context(), &seg); err != nil {
		return err
	}
	return respond.OK(c, seg)
}

func (h *Handler) DeleteSeguimiento(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSeguimiento(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Seguimiento eliminado correctamente")
}

// ---- Reacciones adversas ----

func (h *Handler) CreateReaccion(c echo.Context) error {
	var ra ReaccionAdversa
	if err := c.Bind(&ra); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.CreateReaccion(c.Request().Context(), &ra, userID); err != nil {
		return err
	}
	return respond.Created(c, ra)
}

func (h *Handler) GetReaccion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ra, err := h.svc.GetReaccion(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, ra)
}

func (h *Handler) ListReacciones(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := ReaccionFilter{
		Severidad: c.QueryParam("severidad"),
		Resultado: c.QueryParam("resultado"),
	}
	if v := c.QueryParam("tpt_indicacion_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "tpt_indicacion_id inválido")
		}
		f.TptIndicacionID = &id
	}
	if v := c.QueryParam("establecimiento_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "establecimiento_id inválido")
		}
		f.EstablecimientoID = &id
	}
	items, total, err := h.svc.ListReacciones(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return respond.List(c, items, pg, total)
}

func (h *Handler) UpdateReaccion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var ra ReaccionAdversa
	if err := c.Bind(&ra); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ra.ID = id
	if err := h.svc.UpdateReaccion(c.Request().Context(), &ra); err != nil {
		return err
	}
	return respond.OK(c, ra)
}

func (h *Handler) DeleteReaccion(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteReaccion(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.Deleted(c, "Reacción adversa eliminada correctamente")
}
