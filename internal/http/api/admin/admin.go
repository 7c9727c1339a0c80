// Package admin registers the administrative HTTP routes.
package admin

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	internalhttp "github.com/chzeraa/painel-bemaxx/internal/http"
	"github.com/chzeraa/painel-bemaxx/internal/http/api/admin/handlers"
	"github.com/chzeraa/painel-bemaxx/internal/payments"
	"github.com/chzeraa/painel-bemaxx/internal/stats"
)

// RegisterAdminRoutes registers the admin route group. Every route requires an
// authenticated admin account.
func RegisterAdminRoutes(r *gin.Engine, conn *gorm.DB, cfg *config.Config) {
	if r == nil || conn == nil {
		return
	}

	dirService := directory.NewService(conn)
	enrollService := enrollment.NewService(conn)
	paymentService := payments.NewService(conn)
	statsService := stats.NewService(conn)

	group := r.Group("/v0/admin")
	group.Use(internalhttp.UserAuthMiddleware(conn, cfg.JWT), internalhttp.RequireAdmin())

	userHandler := handlers.NewUserHandler(dirService)
	group.GET("/users", userHandler.List)
	group.POST("/users", userHandler.Create)
	group.PUT("/users/:id", userHandler.Update)
	group.DELETE("/users/:id", userHandler.Delete)

	matriculaHandler := handlers.NewMatriculaHandler(enrollService)
	group.GET("/matriculas", matriculaHandler.List)
	group.POST("/matriculas", matriculaHandler.Create)
	group.POST("/matriculas/:number/void", matriculaHandler.Void)

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	group.GET("/payments", paymentHandler.List)
	group.POST("/payments", paymentHandler.Create)
	group.DELETE("/payments/:id", paymentHandler.Delete)

	dashboardHandler := handlers.NewDashboardHandler(statsService)
	group.GET("/dashboard/overview", dashboardHandler.Overview)
	group.GET("/dashboard/consistency", dashboardHandler.Consistency)

	settingsHandler := handlers.NewSettingsHandler(conn)
	group.GET("/settings", settingsHandler.Get)
	group.PUT("/settings", settingsHandler.Update)
}
