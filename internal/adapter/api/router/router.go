package router

import (
	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/infrastructure/ratelimit"

	"github.com/labstack/echo/v4"
)

const (
	ActionSubmitReport  = "submit_report"
	ActionSubmitComment = "submit_comment"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	SetupScamReportRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupConsolidatedScamRouter(e, authMiddleware, adminMiddleware)
	SetupScamStatsRouter(e, authMiddleware, adminMiddleware)
	SetupScamCommentRouter(e, authMiddleware, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
