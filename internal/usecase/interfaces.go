package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
)

// TokenVerifier checks an ID token with the identity provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*entity.TokenClaims, error)
}
