package alerta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

func newTestHandler() (*Handler, *echo.Echo, *Service) {
	svc := newTestService()
	return NewHandler(svc), echo.New(), svc
}

func TestHandler_Create(t *testing.T) {
	h, e, _ := newTestHandler()

	body := `{"tipo":"seguimiento_vencido","mensaje":"Seguimiento mensual pendiente"}`
	req := httptest.NewRequest(http.MethodPost, "/api/alertas", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Data    Alerta `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Data.Estado != EstadoActiva {
		t.Errorf("expected estado Activa, got %s", resp.Data.Estado)
	}
}

func TestHandler_Resolver(t *testing.T) {
	h, e, svc := newTestHandler()

	a := &Alerta{Tipo: "tpt_abandonado", Mensaje: "Contacto sin dosis en 30 días"}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("seeding alerta: %v", err)
	}

	body := `{"observaciones":"Se contactó al paciente"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.Resolver(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data Alerta `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Data.Estado != EstadoResuelta {
		t.Errorf("expected estado Resuelta, got %s", resp.Data.Estado)
	}
	if resp.Data.Observaciones == nil || *resp.Data.Observaciones != "Se contactó al paciente" {
		t.Error("observaciones not recorded")
	}
}

func TestHandler_ResolverTwiceConflicts(t *testing.T) {
	h, e, svc := newTestHandler()

	a := &Alerta{Tipo: "tpt_abandonado", Mensaje: "Contacto sin dosis en 30 días"}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("seeding alerta: %v", err)
	}
	if _, err := svc.Resolver(context.Background(), a.ID, "user-1", nil); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Resolver(c)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestHandler_GetBadID(t *testing.T) {
	h, e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("no-es-uuid")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
