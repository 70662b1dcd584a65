package middleware

import (
	"github.com/labstack/echo/v4"

	"scamwatch/pkg/errors"
	"scamwatch/pkg/response"
)

type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if !identity.IsAdmin() {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
