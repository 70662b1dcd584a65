package usecase

import (
	"context"
	"strings"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type ScamCommentUseCase struct {
	commentRepo repository.ScamCommentRepository
	reportRepo  repository.ScamReportRepository
	now         func() time.Time
}

func NewScamCommentUseCase(
	commentRepo repository.ScamCommentRepository,
	reportRepo repository.ScamReportRepository,
) *ScamCommentUseCase {
	return &ScamCommentUseCase{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		now:         time.Now,
	}
}

func (uc *ScamCommentUseCase) Create(ctx context.Context, author *entity.Identity, reportID, content string) (*entity.ScamComment, error) {
	if author == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Validation("Comment content is required", []string{"content"})
	}

	if _, err := uc.visibleReport(ctx, author, reportID); err != nil {
		return nil, err
	}

	comment := &entity.ScamComment{
		ReportID:  reportID,
		AuthorID:  author.UserID,
		Content:   content,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *ScamCommentUseCase) ListByReport(ctx context.Context, viewer *entity.Identity, reportID string) ([]*entity.ScamComment, error) {
	if _, err := uc.visibleReport(ctx, viewer, reportID); err != nil {
		return nil, err
	}
	return uc.commentRepo.ListByReport(ctx, reportID)
}

func (uc *ScamCommentUseCase) visibleReport(ctx context.Context, viewer *entity.Identity, reportID string) (*entity.ScamReport, error) {
	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.VisibleTo(viewer) {
		return nil, errors.Forbidden("This report is not available", nil)
	}
	return report, nil
}
