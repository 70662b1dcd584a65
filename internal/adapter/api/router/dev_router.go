package router

import (
	"scamwatch/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

// SetupDevRouter exposes token minting for the development verifier only.
func SetupDevRouter(e *echo.Echo, enabled bool) {
	if !enabled {
		return
	}
	devTokenHandler := handler.GetDevTokenHandler()

	e.GET("/_dev/token/user", devTokenHandler.GenerateUserToken)
	e.GET("/_dev/token/admin", devTokenHandler.GenerateAdminToken)
}
