package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/raisama21/ims/internal/events"
	"github.com/raisama21/ims/internal/handler"
	mid "github.com/raisama21/ims/internal/middleware"
	"github.com/raisama21/ims/pkg/database"
	"github.com/raisama21/ims/pkg/jwtutil"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "migrate the schema before serving")
	return cmd
}

func runServe(autoMigrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting ims", append(cfg.LogFields(), zap.String("version", Version))...)

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("Database migrations applied")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS)
		if err != nil {
			return err
		}
		defer nc.Close()
		publisher = nc
		log.Info("Publishing order events", zap.String("subject", cfg.NATS.Subject))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	handler.New(db, jwtutil.NewJWTUtil(cfg.Cookie), publisher).Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	log.Info("Server stopped")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
