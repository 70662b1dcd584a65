package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type UserRepository interface {
	// Upsert stores profile fields; an existing role is kept.
	Upsert(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	// SetRole creates the user if needed.
	SetRole(ctx context.Context, id, role string) error
}
