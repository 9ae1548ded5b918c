package routes

import (
	"matdepot/internal/container"
	"matdepot/internal/middleware"
	"matdepot/pkg/roles"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, app *container.Container) {
	security.RegisterRoutes(router, app.Repository)
}

func RegisterProtectedRoutes(router *gin.Engine, app *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	app.LedgerHandler.RegisterRoutes(protected)
	app.ClaimHandler.RegisterRoutes(protected)
	app.ReturnHandler.RegisterRoutes(protected)
	app.MaterialHandler.RegisterRoutes(protected)
	app.NotificationHandler.RegisterRoutes(protected)

	warehouse := router.Group("")
	warehouse.Use(security.JWTMiddleware(), security.Authorize(roles.Warehouse))

	app.POHandler.RegisterRoutes(warehouse)
	app.AdjustmentHandler.RegisterRoutes(warehouse)
	app.ClaimHandler.RegisterApprovalRoutes(warehouse)
	app.ReturnHandler.RegisterApprovalRoutes(warehouse)

	admin := router.Group("")
	admin.Use(security.JWTMiddleware(), security.Authorize(roles.Admin))

	app.AuditLogHandler.RegisterRoutes(admin)
	app.UserHandler.RegisterRoutes(admin)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckHandler())
}
