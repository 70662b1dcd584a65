package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type consolidationRepository struct {
	store *Store
}

func NewConsolidationRepository(store *Store) repository.ConsolidationRepository {
	return &consolidationRepository{store: store}
}

func (r *consolidationRepository) Consolidate(ctx context.Context, matchKey, reportID string, mutate repository.MutateFunc) (*entity.ConsolidatedScam, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, linked := r.store.links[reportID]; linked {
		return nil, repository.ErrAlreadyLinked
	}

	var existing *entity.ConsolidatedScam
	if id, ok := r.store.groupKeys[matchKey]; ok {
		existing = copyGroup(r.store.groups[id])
	}

	group, err := mutate(existing)
	if err != nil {
		return nil, err
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	group.MatchKey = matchKey

	r.store.groups[group.ID] = copyGroup(group)
	r.store.groupKeys[matchKey] = group.ID
	r.store.links[reportID] = &entity.ReportConsolidationLink{
		ID:                 uuid.New().String(),
		ReportID:           reportID,
		ConsolidatedScamID: group.ID,
	}
	return group, nil
}

func (r *consolidationRepository) GetByID(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	group, ok := r.store.groups[id]
	if !ok {
		return nil, errors.NotFound("Consolidated scam", nil)
	}
	return copyGroup(group), nil
}

func (r *consolidationRepository) GetByReportID(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	link, ok := r.store.links[reportID]
	if !ok {
		return nil, nil
	}
	return copyGroup(r.store.groups[link.ConsolidatedScamID]), nil
}

func (r *consolidationRepository) List(ctx context.Context, scamType entity.ScamType, limit, offset int) ([]*entity.ConsolidatedScam, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var groups []*entity.ConsolidatedScam
	for _, g := range r.store.groups {
		if scamType == "" || g.ScamType == scamType {
			groups = append(groups, copyGroup(g))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].LastReportedAt.After(groups[j].LastReportedAt)
	})

	total := int64(len(groups))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(groups) {
		return []*entity.ConsolidatedScam{}, total, nil
	}
	groups = groups[offset:]
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}
	return groups, total, nil
}

func (r *consolidationRepository) ListReportIDs(ctx context.Context, consolidatedScamID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []string
	for _, l := range r.store.links {
		if l.ConsolidatedScamID == consolidatedScamID {
			ids = append(ids, l.ReportID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *consolidationRepository) MarkVerified(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	group, ok := r.store.groups[id]
	if !ok {
		return nil, errors.NotFound("Consolidated scam", nil)
	}
	group.IsVerified = true
	return copyGroup(group), nil
}

func (r *consolidationRepository) Reset(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.groups = make(map[string]*entity.ConsolidatedScam)
	r.store.groupKeys = make(map[string]string)
	r.store.links = make(map[string]*entity.ReportConsolidationLink)
	return nil
}
