package router

import (
	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/infrastructure/ratelimit"

	"github.com/labstack/echo/v4"
)

func SetupScamReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	scamReportHandler := handler.GetScamReportHandler()
	reports := e.Group("/scam-reports")

	// Public routes; a valid token widens visibility
	reports.GET("", scamReportHandler.ListReports, authMiddleware.Optional)
	reports.GET("/recent", scamReportHandler.ListRecentReports, authMiddleware.Optional)
	reports.GET("/:id", scamReportHandler.GetReport, authMiddleware.Optional)

	// Protected routes
	reports.POST("", scamReportHandler.CreateReport,
		authMiddleware.Authenticate,
		middleware.RateLimit(limiter, ActionSubmitReport),
	)
	reports.GET("/mine", scamReportHandler.ListMyReports, authMiddleware.Authenticate)

	// Admin routes
	admin := []echo.MiddlewareFunc{authMiddleware.Authenticate, adminMiddleware.AdminOnly}
	reports.POST("/:id/verify", scamReportHandler.VerifyReport, admin...)
	reports.POST("/:id/publish", scamReportHandler.PublishReport, admin...)
	reports.POST("/:id/unpublish", scamReportHandler.UnpublishReport, admin...)
}
