// File: cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"house-admin/internal/cache"
	"house-admin/internal/config"
	"house-admin/internal/database"
	"house-admin/internal/flash"
	"house-admin/internal/form"
	"house-admin/internal/observability"
	"house-admin/internal/router"
	"house-admin/internal/service"
	"house-admin/internal/storage"
	"house-admin/internal/view"
	"house-admin/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomValidator wraps go-playground/validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	ensureAdmin     = service.EnsureAdmin
	newImageStore   = func(dir string) (storage.ImageStore, error) { return storage.NewLocalImageStore(dir) }
	newWorkerPool   = worker.NewPool
	startServer     = serve
	exitFunc        = os.Exit
)

// serve runs e until it fails or the process is asked to stop, then shuts
// it down gracefully.
func serve(e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.AppEnv)
	log.Logger = logger

	ctx := context.Background()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	if cfg.AdminEmail != "" {
		if _, err := ensureAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("建立管理員失敗: %v", err)
		}
		logger.Info().Str("email", cfg.AdminEmail).Msg("admin account ensured")
	}

	images, err := newImageStore(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("圖片目錄建立失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, logger)
	defer wp.Stop()

	reg := observability.InitRegistry()
	if srv := observability.Serve(cfg.MetricsAddr, reg); srv != nil {
		defer srv.Close()
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("載入頁面範本失敗: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: form.NewValidator()}
	e.Renderer = renderer
	e.HTTPErrorHandler = view.ErrorHandler(logger)

	router.Setup(e, router.Deps{
		DB:           db,
		Cache:        rdb,
		Images:       images,
		StorageDir:   cfg.StorageDir,
		Workers:      wp,
		Flash:        flash.NewStore(rdb, cfg.CookieSecure),
		Logger:       logger,
		JWTSecret:    cfg.JWTSecret,
		SecureCookie: cfg.CookieSecure,
	})

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("service stopped")
		exitFunc(1)
	}
}
