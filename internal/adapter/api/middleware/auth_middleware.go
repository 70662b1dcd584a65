package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/response"
)

const identityKey = "identity"

type AuthMiddleware struct {
	userUseCase *usecase.UserUseCase
}

func NewAuthMiddleware(userUseCase *usecase.UserUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		userUseCase: userUseCase,
	}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		identity, err := m.userUseCase.Authenticate(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, err)
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// Optional attaches the identity when a valid token is present and lets
// anonymous callers through otherwise.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return next(c)
		}

		idToken, err := bearerToken(c)
		if err != nil {
			return next(c)
		}

		identity, err := m.userUseCase.Authenticate(c.Request().Context(), idToken)
		if err != nil {
			logger.Debug("ignoring invalid token on %s: %v", c.Path(), err)
			return next(c)
		}

		setIdentity(c, identity)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}

// IdentityFrom returns the verified caller, or nil for anonymous requests.
func IdentityFrom(c echo.Context) *entity.Identity {
	identity, _ := c.Get(identityKey).(*entity.Identity)
	return identity
}

func setIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(identityKey, identity)
}
