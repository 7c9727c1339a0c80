// Package front registers the seller-facing HTTP routes.
package front

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	internalhttp "github.com/chzeraa/painel-bemaxx/internal/http"
	"github.com/chzeraa/painel-bemaxx/internal/http/api/front/handlers"
	"github.com/chzeraa/painel-bemaxx/internal/stats"
)

// RegisterFrontRoutes registers public and authenticated seller routes.
func RegisterFrontRoutes(r *gin.Engine, conn *gorm.DB, cfg *config.Config) {
	if r == nil || conn == nil {
		return
	}

	dirService := directory.NewService(conn)
	enrollService := enrollment.NewService(conn)
	allocator := enrollment.NewAllocator(enrollService, cfg.DrawDelay())
	statsService := stats.NewService(conn)

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(dirService, cfg.JWT)
	front.POST("/login", authHandler.Login)
	front.GET("/config", handlers.GetPublicConfig)

	authed := front.Group("")
	authed.Use(internalhttp.UserAuthMiddleware(conn, cfg.JWT))

	profileHandler := handlers.NewProfileHandler(dirService)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile/password", profileHandler.ChangePassword)

	matriculaHandler := handlers.NewMatriculaFrontHandler(enrollService, allocator, dirService)
	authed.GET("/matriculas", matriculaHandler.List)
	authed.POST("/matriculas/draw", matriculaHandler.Draw)
	authed.POST("/matriculas/sale", matriculaHandler.Sale)

	dashboardHandler := handlers.NewDashboardHandler(statsService)
	authed.GET("/dashboard/stats", dashboardHandler.Stats)
}
