package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
)

type memRecorder struct {
	entries []AuditEntry
	err     error
}

func (r *memRecorder) Record(entry AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func newRegistry() *AuditRegistry {
	reg := NewAuditRegistry()
	reg.Declare("/api/contactos", "contacto")
	reg.Declare("/api/tpt-indicaciones", "tpt_indicacion")
	return reg
}

func doAudited(t *testing.T, reg *AuditRegistry, rec *memRecorder, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)
	c.SetPath(path)

	ctx := context.WithValue(req.Context(), auth.UserIDKey, "user-7")
	c.SetRequest(req.WithContext(ctx))

	handler := Audit(zerolog.Nop(), reg, rec)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return w
}

func TestAuditRecordsMutatingRequest(t *testing.T) {
	rec := &memRecorder{}
	doAudited(t, newRegistry(), rec, http.MethodPost, "/api/contactos", `{"nombres":"Ana"}`)

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Recurso != "contacto" {
		t.Fatalf("recurso = %q", e.Recurso)
	}
	if e.Accion != "crear" {
		t.Fatalf("accion = %q", e.Accion)
	}
	if e.UserID != "user-7" {
		t.Fatalf("user = %q", e.UserID)
	}
	if e.EstadoHTTP != http.StatusOK {
		t.Fatalf("status = %d", e.EstadoHTTP)
	}
}

func TestAuditSkipsReads(t *testing.T) {
	rec := &memRecorder{}
	doAudited(t, newRegistry(), rec, http.MethodGet, "/api/contactos", "")
	if len(rec.entries) != 0 {
		t.Fatalf("GET should not be audited, got %d entries", len(rec.entries))
	}
}

func TestAuditSkipsUndeclaredRoutes(t *testing.T) {
	rec := &memRecorder{}
	doAudited(t, newRegistry(), rec, http.MethodPost, "/api/login", `{"usuario":"ana"}`)
	if len(rec.entries) != 0 {
		t.Fatalf("undeclared route should not be audited, got %d entries", len(rec.entries))
	}
}

func TestAuditRedactsSensitiveFields(t *testing.T) {
	rec := &memRecorder{}
	doAudited(t, newRegistry(), rec, http.MethodPost, "/api/contactos",
		`{"nombres":"Ana","password":"secreta123","api_token":"abc"}`)

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d", len(rec.entries))
	}
	var datos map[string]interface{}
	if err := json.Unmarshal(rec.entries[0].Datos, &datos); err != nil {
		t.Fatalf("datos no es JSON: %v", err)
	}
	if datos["password"] != "[REDACTED]" {
		t.Fatalf("password = %v", datos["password"])
	}
	if datos["api_token"] != "[REDACTED]" {
		t.Fatalf("api_token = %v", datos["api_token"])
	}
	if datos["nombres"] != "Ana" {
		t.Fatalf("nombres = %v", datos["nombres"])
	}
}

func TestAuditRecorderErrorDoesNotFailRequest(t *testing.T) {
	rec := &memRecorder{err: errors.New("db down")}
	w := doAudited(t, newRegistry(), rec, http.MethodDelete, "/api/contactos/abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("recorder failure leaked to response: %d", w.Code)
	}
}

func TestAuditBodyRestoredForHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/contactos", strings.NewReader(`{"nombres":"Ana"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)

	var seen map[string]string
	handler := Audit(zerolog.Nop(), newRegistry(), &memRecorder{})(func(c echo.Context) error {
		if err := c.Bind(&seen); err != nil {
			return err
		}
		return c.NoContent(http.StatusCreated)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if seen["nombres"] != "Ana" {
		t.Fatalf("handler could not rebind body: %v", seen)
	}
}

func TestRegistryResolveLongestPrefix(t *testing.T) {
	reg := NewAuditRegistry()
	reg.Declare("/api/tpt-indicaciones", "tpt_indicacion")
	reg.Declare("/api/tpt-indicaciones/consentimientos", "tpt_consentimiento")

	if got := reg.Resolve("/api/tpt-indicaciones/consentimientos/5"); got != "tpt_consentimiento" {
		t.Fatalf("resolve = %q, want tpt_consentimiento", got)
	}
	if got := reg.Resolve("/api/tpt-indicaciones/5"); got != "tpt_indicacion" {
		t.Fatalf("resolve = %q, want tpt_indicacion", got)
	}
	if got := reg.Resolve("/api/alertas"); got != "" {
		t.Fatalf("resolve = %q, want empty", got)
	}
}

func TestMethodToAccion(t *testing.T) {
	cases := map[string]string{
		http.MethodPost:   "crear",
		http.MethodPut:    "actualizar",
		http.MethodPatch:  "actualizar",
		http.MethodDelete: "eliminar",
	}
	for method, want := range cases {
		if got := methodToAccion(method); got != want {
			t.Errorf("methodToAccion(%s) = %q, want %q", method, got, want)
		}
	}
}
