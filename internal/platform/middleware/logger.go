package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
)

// Logger emits one structured line per request with the same field
// vocabulary the audit trail uses (request_id, user_id, metodo, ruta).
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt.
				Str("request_id", RequestIDFrom(c)).
				Str("user_id", auth.UserIDFromContext(c.Request().Context())).
				Str("metodo", req.Method).
				Str("ruta", req.URL.Path).
				Str("query", req.URL.RawQuery).
				Int("status", c.Response().Status).
				Dur("latencia", time.Since(start)).
				Str("ip", c.RealIP()).
				Msg("request atendida")

			return err
		}
	}
}
