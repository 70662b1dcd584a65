package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/adapter/repository/memory"
	"scamwatch/internal/domain/entity"
	apperrors "scamwatch/pkg/errors"
)

type fakeVerifier map[string]*entity.TokenClaims

func (v fakeVerifier) VerifyToken(_ context.Context, idToken string) (*entity.TokenClaims, error) {
	claims, ok := v[idToken]
	if !ok {
		return nil, errors.New("token rejected")
	}
	return claims, nil
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	verifier := fakeVerifier{
		"alice-token":  {UID: "alice", Email: "alice@example.com", DisplayName: "Alice"},
		"claim-admin":  {UID: "carol", Role: entity.RoleAdmin},
		"stored-admin": {UID: "dave"},
		"missing-uid":  {Email: "ghost@example.com"},
	}
	store.SetRole("dave", entity.RoleAdmin)
	uc := NewUserUseCase(memory.NewUserRepository(store), verifier)

	identity, err := uc.Authenticate(ctx, "alice-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.UserID)
	assert.Equal(t, "Alice", identity.DisplayName)
	assert.False(t, identity.IsAdmin())

	profile, err := uc.GetProfile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, entity.RoleUser, profile.Role)

	identity, err = uc.Authenticate(ctx, "claim-admin")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	identity, err = uc.Authenticate(ctx, "stored-admin")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	_, err = uc.Authenticate(ctx, "bogus")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))

	_, err = uc.Authenticate(ctx, "missing-uid")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))

	_, err = uc.GetProfile(ctx, nil)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}
