package router

import (
	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupScamStatsRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	scamStatsHandler := handler.GetScamStatsHandler()

	e.GET("/scam-stats", scamStatsHandler.GetStats, authMiddleware.Optional)
	e.POST("/scam-stats/recompute", scamStatsHandler.RecomputeStats, authMiddleware.Authenticate, adminMiddleware.AdminOnly)
}
