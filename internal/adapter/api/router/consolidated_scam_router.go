package router

import (
	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupConsolidatedScamRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	consolidatedScamHandler := handler.GetConsolidatedScamHandler()
	scams := e.Group("/consolidated-scams")

	scams.GET("", consolidatedScamHandler.ListConsolidatedScams)
	scams.GET("/by-type/:type", consolidatedScamHandler.ListByType)
	scams.GET("/:id", consolidatedScamHandler.GetConsolidatedScam, authMiddleware.Optional)

	admin := []echo.MiddlewareFunc{authMiddleware.Authenticate, adminMiddleware.AdminOnly}
	scams.POST("/:id/verify", consolidatedScamHandler.VerifyConsolidatedScam, admin...)
	scams.POST("/rebuild", consolidatedScamHandler.Rebuild, admin...)
}
