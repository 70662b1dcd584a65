package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type ScamReportRepository interface {
	Create(ctx context.Context, report *entity.ScamReport) error
	GetByID(ctx context.Context, id string) (*entity.ScamReport, error)
	// List returns one page ordered by reportedAt descending, plus the total match count.
	List(ctx context.Context, filter entity.ScamReportFilter, limit, offset int) ([]*entity.ScamReport, int64, error)
	// ListAll returns every report ordered by reportedAt ascending.
	ListAll(ctx context.Context) ([]*entity.ScamReport, error)
	Update(ctx context.Context, report *entity.ScamReport) error
}
