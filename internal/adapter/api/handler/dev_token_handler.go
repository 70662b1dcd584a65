package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/infrastructure/firebase"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/response"
)

// DevTokenHandler issues tokens for the development verifier. It is only
// routed when that verifier is active.
type DevTokenHandler struct{}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler() *DevTokenHandler {
	return &DevTokenHandler{}
}

func SetupDevTokenHandler() {
	devTokenHandler = NewDevTokenHandler()
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

func (h *DevTokenHandler) GenerateUserToken(c echo.Context) error {
	return h.generate(c, entity.RoleUser)
}

func (h *DevTokenHandler) GenerateAdminToken(c echo.Context) error {
	return h.generate(c, entity.RoleAdmin)
}

func (h *DevTokenHandler) generate(c echo.Context, role string) error {
	uid := strings.TrimSpace(c.QueryParam("uid"))
	if uid == "" {
		return response.Error(c, errors.BadRequest("uid query parameter is required", nil))
	}

	tokenRole := ""
	if role == entity.RoleAdmin {
		tokenRole = entity.RoleAdmin
	}

	return response.Success(c, map[string]interface{}{
		"token": firebase.DevToken(uid, tokenRole),
		"user": map[string]interface{}{
			"id":   uid,
			"role": role,
		},
	})
}
