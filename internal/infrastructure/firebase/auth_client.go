package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"scamwatch/internal/domain/entity"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken checks a Firebase ID token and returns what it vouches for.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*entity.TokenClaims, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return claimsFromToken(result), nil
}

func claimsFromToken(token *auth.Token) *entity.TokenClaims {
	claims := &entity.TokenClaims{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.DisplayName = name
	}
	// role is a custom claim set through the Admin SDK
	if role, ok := token.Claims["role"].(string); ok {
		claims.Role = role
	}
	return claims
}
