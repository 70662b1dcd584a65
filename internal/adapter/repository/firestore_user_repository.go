package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	ref := r.client.Collection("users").Doc(user.ID)

	var stored entity.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now()
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			stored = *user
			if stored.Role == "" {
				stored.Role = entity.RoleUser
			}
			stored.CreatedAt = now
			stored.UpdatedAt = now
			return tx.Set(ref, &stored)
		}

		if err := doc.DataTo(&stored); err != nil {
			return err
		}

		// Only include non-empty fields so a sparse token does not erase the profile.
		updates := []firestore.Update{{Path: "updatedAt", Value: now}}
		if user.Email != "" {
			stored.Email = user.Email
			updates = append(updates, firestore.Update{Path: "email", Value: user.Email})
		}
		if user.DisplayName != "" {
			stored.DisplayName = user.DisplayName
			updates = append(updates, firestore.Update{Path: "displayName", Value: user.DisplayName})
		}
		stored.UpdatedAt = now
		return tx.Update(ref, updates)
	})
	if err != nil {
		return nil, errors.Internal("Failed to upsert user", err)
	}
	return &stored, nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	seen := make(map[string]bool, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection("users").Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		users[doc.Ref.ID] = &user
	}
	return users, nil
}

func (r *firestoreUserRepository) SetRole(ctx context.Context, id, role string) error {
	now := time.Now()
	ref := r.client.Collection("users").Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Set(ref, &entity.User{ID: id, Role: role, CreatedAt: now, UpdatedAt: now})
		}
		if err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "role", Value: role},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return errors.Internal("Failed to set user role", err)
	}
	return nil
}
