// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"house-admin/internal/cache"
	"house-admin/internal/database"
	"house-admin/internal/dto"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應模型
type PingResponse struct {
	// 回應訊息
	Message string `json:"message"`
}

// PingHandler 健康檢查（需登入），檢查資料庫與快取連線是否正常
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "database unhealthy"})
		}
		if err := cch.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
