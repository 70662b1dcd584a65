package router

import (
	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/infrastructure/ratelimit"

	"github.com/labstack/echo/v4"
)

func SetupScamCommentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	scamCommentHandler := handler.GetScamCommentHandler()

	e.GET("/scam-comments/:reportId", scamCommentHandler.ListComments, authMiddleware.Optional)
	e.POST("/scam-comments", scamCommentHandler.CreateComment,
		authMiddleware.Authenticate,
		middleware.RateLimit(limiter, ActionSubmitComment),
	)
}
