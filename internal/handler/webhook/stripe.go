// File: internal/handler/webhook/stripe.go

// Package webhook acknowledges payment provider callbacks.
package webhook

import (
	"io"
	"net/http"

	"house-admin/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const maxBodyBytes = 64 << 10

// WebhookResponse 回傳收到事件的確認訊息
type WebhookResponse struct {
	Message string `json:"message"`
}

// StripeHandler logs the event type and id and acknowledges the call. The
// event is not processed further.
func StripeHandler(logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "unreadable payload"})
		}
		if len(body) > maxBodyBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, dto.HTTPError{Message: "payload too large"})
		}
		if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid payload"})
		}

		fields := gjson.GetManyBytes(body, "type", "id")
		logger.Info().
			Str("type", fields[0].String()).
			Str("id", fields[1].String()).
			Msg("webhook received")
		return c.JSON(http.StatusOK, WebhookResponse{Message: "received"})
	}
}
