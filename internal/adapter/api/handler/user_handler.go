package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// GetProfile returns the stored profile with the role resolved for this request.
func (h *UserHandler) GetProfile(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), identity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        identity.Role,
		"isAdmin":     identity.IsAdmin(),
		"createdAt":   user.CreatedAt,
	})
}
