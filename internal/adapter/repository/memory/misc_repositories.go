package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type scamCommentRepository struct {
	store *Store
}

func NewScamCommentRepository(store *Store) repository.ScamCommentRepository {
	return &scamCommentRepository{store: store}
}

func (r *scamCommentRepository) Create(ctx context.Context, comment *entity.ScamComment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	cp := *comment
	r.store.comments = append(r.store.comments, &cp)
	return nil
}

func (r *scamCommentRepository) ListByReport(ctx context.Context, reportID string) ([]*entity.ScamComment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := []*entity.ScamComment{}
	for _, c := range r.store.comments {
		if c.ReportID == reportID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type scamStatsRepository struct {
	store *Store
}

func NewScamStatsRepository(store *Store) repository.ScamStatsRepository {
	return &scamStatsRepository{store: store}
}

func (r *scamStatsRepository) Save(ctx context.Context, stats *entity.ScamStats) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *stats
	r.store.stats[stats.Scope] = &cp
	return nil
}

func (r *scamStatsRepository) Latest(ctx context.Context, scope entity.StatsScope) (*entity.ScamStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats, ok := r.store.stats[scope]
	if !ok {
		return nil, nil
	}
	cp := *stats
	return &cp, nil
}

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	stored, ok := r.store.users[user.ID]
	if !ok {
		cp := *user
		if cp.Role == "" {
			cp.Role = entity.RoleUser
		}
		cp.CreatedAt = now
		cp.UpdatedAt = now
		r.store.users[user.ID] = &cp
		out := cp
		return &out, nil
	}

	if user.Email != "" {
		stored.Email = user.Email
	}
	if user.DisplayName != "" {
		stored.DisplayName = user.DisplayName
	}
	stored.UpdatedAt = now
	out := *stored
	return &out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			cp := *user
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *userRepository) SetRole(ctx context.Context, id, role string) error {
	r.store.SetRole(id, role)
	return nil
}

// SetRole promotes or demotes a user directly, for test setup.
func (s *Store) SetRole(userID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		user.Role = role
		return
	}
	s.users[userID] = &entity.User{ID: userID, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
}
