// Package app assembles the panel server: configuration, logging, storage,
// seeding and the HTTP surface.
package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/db"
	internalhttp "github.com/chzeraa/painel-bemaxx/internal/http"
	"github.com/chzeraa/painel-bemaxx/internal/http/api/admin"
	adminhandlers "github.com/chzeraa/painel-bemaxx/internal/http/api/admin/handlers"
	"github.com/chzeraa/painel-bemaxx/internal/http/api/front"
	"github.com/chzeraa/painel-bemaxx/internal/logging"
	"github.com/chzeraa/painel-bemaxx/internal/settings"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(configPath))
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Log)
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the panel API server and blocks until the context is
// cancelled or the listener fails.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(configPath))
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Log)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := Seed(ctx, conn, cfg.Seed); errSeed != nil {
		return errSeed
	}
	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}

	engine := buildEngine(conn, cfg)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("panel listening on %s (%s)", cfg.Server.Addr, db.DialectName(conn))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case errServe := <-serveErr:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildEngine wires the gin engine with middlewares and both route groups.
func buildEngine(conn *gorm.DB, cfg *config.Config) *gin.Engine {
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), internalhttp.RequestLogMiddleware())

	healthHandler := adminhandlers.NewHealthHandler(conn)
	engine.GET("/healthz", healthHandler.Healthz)

	front.RegisterFrontRoutes(engine, conn, cfg)
	admin.RegisterAdminRoutes(engine, conn, cfg)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return engine
}
