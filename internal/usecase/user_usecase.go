package usecase

import (
	"context"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	verifier TokenVerifier
}

func NewUserUseCase(userRepo repository.UserRepository, verifier TokenVerifier) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		verifier: verifier,
	}
}

// Authenticate verifies idToken, syncs the caller's profile and resolves the
// admin capability from the stored role or the token's role claim.
func (uc *UserUseCase) Authenticate(ctx context.Context, idToken string) (*entity.Identity, error) {
	claims, err := uc.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if claims.UID == "" {
		return nil, errors.Unauthorized("Token has no subject", nil)
	}

	user, err := uc.userRepo.Upsert(ctx, &entity.User{
		ID:          claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        entity.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	role := user.Role
	if claims.Role == entity.RoleAdmin {
		role = entity.RoleAdmin
	}

	logger.Debug("authenticated user %s with role %s", user.ID, role)
	return &entity.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        role,
	}, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, identity *entity.Identity) (*entity.User, error) {
	if identity == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.userRepo.GetByID(ctx, identity.UserID)
}
