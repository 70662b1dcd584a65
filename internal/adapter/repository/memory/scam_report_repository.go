package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
)

type scamReportRepository struct {
	store *Store
}

func NewScamReportRepository(store *Store) repository.ScamReportRepository {
	return &scamReportRepository{store: store}
}

func (r *scamReportRepository) Create(ctx context.Context, report *entity.ScamReport) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if _, exists := r.store.reports[report.ID]; exists {
		return errors.Conflict("report already exists")
	}
	r.store.reports[report.ID] = copyReport(report)
	return nil
}

func (r *scamReportRepository) GetByID(ctx context.Context, id string) (*entity.ScamReport, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	report, ok := r.store.reports[id]
	if !ok {
		return nil, errors.NotFound("Scam report", nil)
	}
	return copyReport(report), nil
}

func (r *scamReportRepository) List(ctx context.Context, filter entity.ScamReportFilter, limit, offset int) ([]*entity.ScamReport, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.ScamReport
	for _, report := range r.store.reports {
		if service.MatchesFilter(report, filter) {
			matched = append(matched, copyReport(report))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReportedAt.After(matched[j].ReportedAt)
	})

	total := int64(len(matched))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*entity.ScamReport{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *scamReportRepository) ListAll(ctx context.Context) ([]*entity.ScamReport, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all := make([]*entity.ScamReport, 0, len(r.store.reports))
	for _, report := range r.store.reports {
		all = append(all, copyReport(report))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ReportedAt.Before(all[j].ReportedAt)
	})
	return all, nil
}

func (r *scamReportRepository) Update(ctx context.Context, report *entity.ScamReport) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.reports[report.ID]; !ok {
		return errors.NotFound("Scam report", nil)
	}
	r.store.reports[report.ID] = copyReport(report)
	return nil
}
