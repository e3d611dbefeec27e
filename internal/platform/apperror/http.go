package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// errorBody is the JSON payload returned for any failed request.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPErrorHandler returns the central echo error handler. It maps error
// kinds to status codes in exactly one place; handlers and services never
// choose status codes themselves.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Message: "Error interno del servidor"}

		var ae *Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			switch ae.Kind {
			case KindNotFound:
				status = http.StatusNotFound
			case KindValidation:
				status = http.StatusBadRequest
			case KindConflict:
				status = http.StatusConflict
			}
			body.Code = ae.Code
			if ae.Kind != KindInternal {
				body.Message = ae.Message
			}
		case errors.As(err, &he):
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
