// File: internal/router/router.go
package router

import (
	"house-admin/internal/cache"
	"house-admin/internal/database"
	"house-admin/internal/flash"
	"house-admin/internal/handler"
	"house-admin/internal/handler/admin"
	"house-admin/internal/handler/auth"
	"house-admin/internal/handler/houses"
	"house-admin/internal/handler/webhook"
	"house-admin/internal/middleware"
	"house-admin/internal/observability"
	"house-admin/internal/security"
	"house-admin/internal/storage"
	"house-admin/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Deps 路由所需的共用元件
type Deps struct {
	DB           database.DB
	Cache        cache.Cache
	Images       storage.ImageStore
	StorageDir   string
	Workers      worker.Pool
	Flash        flash.Flasher
	Logger       zerolog.Logger
	JWTSecret    string
	SecureCookie bool
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	e.Use(observability.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(observability.Metrics)
	e.Use(middleware.CSRF(d.SecureCookie))
	e.Use(middleware.Authenticate(d.JWTSecret))
	e.Use(middleware.Authorize(security.DefaultRules()))

	// 上傳的房源圖片
	e.Static("/storage", d.StorageDir)

	// 公開頁面
	e.GET("/", handler.HomeHandler())
	e.GET("/houses", houses.IndexHandler(d.DB))
	e.GET("/houses/:id", houses.ShowHandler(d.DB))

	// 登入、登出
	e.GET("/login", auth.LoginPageHandler())
	e.POST("/login", auth.LoginHandler(d.DB, d.JWTSecret, d.SecureCookie))
	e.POST("/logout", auth.LogoutHandler())

	// 金流通知（免 CSRF、免登入）
	e.POST(middleware.WebhookPath, webhook.StripeHandler(d.Logger))

	// 健康檢查（需登入）
	e.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 管理員專屬房源管理
	adminHouses := e.Group("/admin/houses")
	adminHouses.GET("", admin.IndexHandler(d.DB, d.Flash))
	adminHouses.GET("/register", admin.RegisterHandler())
	adminHouses.POST("/create", admin.CreateHandler(d.DB, d.Images, d.Flash))
	adminHouses.GET("/:id", admin.ShowHandler(d.DB))
	adminHouses.GET("/:id/edit", admin.EditHandler(d.DB))
	adminHouses.POST("/:id/update", admin.UpdateHandler(d.DB, d.Images, d.Workers, d.Flash))
	adminHouses.POST("/:id/delete", admin.DeleteHandler(d.DB, d.Images, d.Workers, d.Flash))
}
