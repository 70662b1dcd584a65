package router

import (
	"scamwatch/internal/adapter/api/handler"
	"scamwatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	e.GET("/users/me", userHandler.GetProfile, authMiddleware.Authenticate)
}
