package firebase

import (
	"context"
	"fmt"
	"strings"

	"scamwatch/internal/domain/entity"
)

const devTokenPrefix = "dev:"

// DevTokenVerifier accepts unsigned tokens of the form "dev:<uid>[:<role>]".
// It is only wired when ENVIRONMENT=development and no Firebase project is set.
type DevTokenVerifier struct{}

func NewDevTokenVerifier() *DevTokenVerifier {
	return &DevTokenVerifier{}
}

func (DevTokenVerifier) VerifyToken(ctx context.Context, token string) (*entity.TokenClaims, error) {
	if !strings.HasPrefix(token, devTokenPrefix) {
		return nil, fmt.Errorf("not a development token")
	}

	parts := strings.Split(strings.TrimPrefix(token, devTokenPrefix), ":")
	uid := strings.TrimSpace(parts[0])
	if uid == "" {
		return nil, fmt.Errorf("development token has no uid")
	}

	claims := &entity.TokenClaims{UID: uid, DisplayName: uid}
	if len(parts) > 1 && parts[1] == entity.RoleAdmin {
		claims.Role = entity.RoleAdmin
	}
	return claims, nil
}

// DevToken builds a token DevTokenVerifier accepts.
func DevToken(uid, role string) string {
	if role == "" {
		return devTokenPrefix + uid
	}
	return devTokenPrefix + uid + ":" + role
}
