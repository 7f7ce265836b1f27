package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campus-events/internal/cache"
	"campus-events/internal/config"
	"campus-events/internal/database"
	"campus-events/internal/metrics"
	"campus-events/internal/middleware"
	"campus-events/internal/router"
	"campus-events/internal/validation"
	"campus-events/internal/worker"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	newPgxPool     = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	startServer    = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool  = worker.NewPool
)

func newEcho(logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.EchoValidator{V: validation.New()}
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware)
	return e
}

// serve 開啟所有資源後啟動 HTTP server，ctx 結束時優雅關閉。
// 關閉順序：HTTP server -> worker pool -> Redis -> DB。
func serve(ctx context.Context, cfg config.Config) error {
	logger := log.Logger

	db, err := newPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("關閉 Redis 連線失敗")
		}
	}()

	if err := runMigrationsFn(cfg.Database.URL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	wp := newWorkerPool(cfg.Workers)
	defer wp.Stop()

	e := newEcho(logger)
	router.Setup(e, db, rdb, wp, cfg)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		logger.Info().Str("addr", cfg.HTTPAddr).Int("workers", cfg.Workers).Msg("http server starting")
		if err := startServer(e, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("http server shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
