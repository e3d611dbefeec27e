package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
)

// AuditEntry captures who did what to which resource. Mutating requests on
// registered resources produce one entry each.
type AuditEntry struct {
	UserID     string
	Recurso    string
	Accion     string // crear, actualizar, eliminar
	RegistroID string
	Metodo     string
	Ruta       string
	IP         string
	EstadoHTTP int
	Datos      json.RawMessage
	RequestID  string
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. The middleware never fails a request
// on recorder errors; they are logged and dropped.
type AuditRecorder interface {
	Record(entry AuditEntry) error
}

// AuditRegistry maps route prefixes to the resource name recorded in the
// audit log. Each handler declares its own resource when registering routes,
// instead of the audit layer inferring table names from URLs.
type AuditRegistry struct {
	prefixes map[string]string
}

// NewAuditRegistry creates an empty registry.
func NewAuditRegistry() *AuditRegistry {
	return &AuditRegistry{prefixes: make(map[string]string)}
}

// Declare registers the resource name audited under a route prefix, e.g.
// Declare("/api/contactos", "contacto").
func (r *AuditRegistry) Declare(prefix, recurso string) {
	r.prefixes[prefix] = recurso
}

// Resolve returns the declared resource for a path, or "" when the path is
// not audited.
func (r *AuditRegistry) Resolve(path string) string {
	best := ""
	recurso := ""
	for prefix, res := range r.prefixes {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
			recurso = res
		}
	}
	return recurso
}

var redactedFields = []string{"password", "contrasena", "clave", "token"}

// Audit returns middleware that records every mutating call on a declared
// resource: actor, action, request body (password-like fields redacted) and
// response status. Read-only methods pass through untouched.
func Audit(logger zerolog.Logger, registry *AuditRegistry, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isMutating(req.Method) {
				return next(c)
			}

			recurso := registry.Resolve(req.URL.Path)
			if recurso == "" {
				return next(c)
			}

			// The body is consumed here and restored for the handler.
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewReader(body))
			}

			err := next(c)

			entry := AuditEntry{
				Recurso:    recurso,
				Accion:     methodToAccion(req.Method),
				RegistroID: c.Param("id"),
				Metodo:     req.Method,
				Ruta:       req.URL.Path,
				IP:         c.RealIP(),
				EstadoHTTP: c.Response().Status,
				Datos:      redact(body),
				Timestamp:  time.Now().UTC(),
			}
			entry.UserID = auth.UserIDFromContext(c.Request().Context())
			entry.RequestID = RequestIDFrom(c)

			if recorder != nil {
				if recErr := recorder.Record(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Str("recurso", recurso).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("recurso", entry.Recurso).
				Str("accion", entry.Accion).
				Str("ruta", entry.Ruta).
				Int("status", entry.EstadoHTTP).
				Msg("audited request")

			return err
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func methodToAccion(method string) string {
	switch method {
	case http.MethodPost:
		return "crear"
	case http.MethodPut, http.MethodPatch:
		return "actualizar"
	case http.MethodDelete:
		return "eliminar"
	}
	return "otro"
}

// redact replaces password-like values in a JSON body. Non-JSON bodies are
// dropped rather than stored raw.
func redact(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	for key := range m {
		lower := strings.ToLower(key)
		for _, f := range redactedFields {
			if strings.Contains(lower, f) {
				m[key] = "[REDACTED]"
			}
		}
	}
	out, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return out
}
