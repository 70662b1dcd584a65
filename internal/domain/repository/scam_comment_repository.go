package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type ScamCommentRepository interface {
	Create(ctx context.Context, comment *entity.ScamComment) error
	// ListByReport returns comments oldest first.
	ListByReport(ctx context.Context, reportID string) ([]*entity.ScamComment, error)
}
