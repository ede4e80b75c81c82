// File: internal/view/errors.go
package view

import (
	"errors"
	"net/http"
	"strings"

	"house-admin/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorHandler renders failed requests with the "error" view, or as a
// dto.HTTPError body for JSON clients. 5xx errors are logged and their
// details hidden.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := ""
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", code).
				Msg("request failed")
			msg = ""
		}
		if msg == "" {
			msg = http.StatusText(code)
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(code)
		case wantsJSON(c):
			rerr = c.JSON(code, dto.HTTPError{Message: msg})
		default:
			if rerr = c.Render(code, "error", echo.Map{"status": code, "message": msg}); rerr != nil {
				rerr = c.String(code, msg)
			}
		}
		if rerr != nil {
			logger.Error().Err(rerr).Msg("write error response")
		}
	}
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
