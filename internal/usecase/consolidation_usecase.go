package usecase

import (
	"context"
	stderrors "errors"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/metrics"
	"scamwatch/pkg/utils"
)

type ConsolidationUseCase struct {
	consolidationRepo repository.ConsolidationRepository
	reportRepo        repository.ScamReportRepository
	matcher           *service.IdentifierMatcher
	stats             StatsRefresher
}

func NewConsolidationUseCase(
	consolidationRepo repository.ConsolidationRepository,
	reportRepo repository.ScamReportRepository,
	matcher *service.IdentifierMatcher,
	stats StatsRefresher,
) *ConsolidationUseCase {
	return &ConsolidationUseCase{
		consolidationRepo: consolidationRepo,
		reportRepo:        reportRepo,
		matcher:           matcher,
		stats:             stats,
	}
}

type ConsolidatedScamDetail struct {
	*entity.ConsolidatedScam
	Reports []*entity.ScamReport `json:"reports"`
}

type RebuildResult struct {
	Reports  int `json:"reports"`
	Linked   int `json:"linked"`
	Skipped  int `json:"skipped"`
	Groups   int `json:"groups"`
	Verified int `json:"verified"`
}

// Consolidate links report to the group for its identifier, creating the group
// on first sight. It returns nil, nil when the report has no usable identifier.
func (uc *ConsolidationUseCase) Consolidate(ctx context.Context, report *entity.ScamReport) (*entity.ConsolidatedScam, error) {
	group, err := uc.consolidate(ctx, report)
	if err != nil || group == nil {
		return group, err
	}
	uc.stats.Refresh(ctx)
	return group, nil
}

func (uc *ConsolidationUseCase) consolidate(ctx context.Context, report *entity.ScamReport) (*entity.ConsolidatedScam, error) {
	identifier := service.ExtractIdentifier(report)
	if identifier == "" {
		logger.WithFields(logger.Fields{"reportId": report.ID, "scamType": report.ScamType}).
			Info("report has no identifier, skipping consolidation")
		metrics.RecordConsolidation("skipped")
		return nil, nil
	}

	created := false
	matchKey := uc.matcher.MatchKey(report.ScamType, identifier)
	group, err := uc.consolidationRepo.Consolidate(ctx, matchKey, report.ID, func(existing *entity.ConsolidatedScam) (*entity.ConsolidatedScam, error) {
		if existing == nil {
			created = true
			return &entity.ConsolidatedScam{
				ScamType:        report.ScamType,
				Identifier:      identifier,
				ReportCount:     1,
				FirstReportedAt: report.ReportedAt,
				LastReportedAt:  report.ReportedAt,
				IsVerified:      false,
			}, nil
		}

		existing.ReportCount++
		if report.ReportedAt.After(existing.LastReportedAt) {
			existing.LastReportedAt = report.ReportedAt
		}
		if report.ReportedAt.Before(existing.FirstReportedAt) {
			existing.FirstReportedAt = report.ReportedAt
		}
		return existing, nil
	})
	if err != nil {
		metrics.RecordConsolidation("failed")
		if stderrors.Is(err, repository.ErrAlreadyLinked) {
			return nil, errors.AlreadyLinked(report.ID, err)
		}
		return nil, err
	}

	if created {
		metrics.RecordConsolidation("created")
	} else {
		metrics.RecordConsolidation("merged")
	}
	return group, nil
}

// PropagateVerification marks the report's group verified. It never un-verifies.
func (uc *ConsolidationUseCase) PropagateVerification(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error) {
	group, err := uc.consolidationRepo.GetByReportID(ctx, reportID)
	if err != nil || group == nil {
		return nil, err
	}
	if group.IsVerified {
		return group, nil
	}
	return uc.consolidationRepo.MarkVerified(ctx, group.ID)
}

func (uc *ConsolidationUseCase) GroupForReport(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error) {
	return uc.consolidationRepo.GetByReportID(ctx, reportID)
}

func (uc *ConsolidationUseCase) List(ctx context.Context, scamType entity.ScamType, page, limit int) ([]*entity.ConsolidatedScam, int64, error) {
	if scamType != "" && !scamType.Valid() {
		return nil, 0, errors.BadRequest("Invalid scam type", nil)
	}

	params := utils.NewPaginationParams(page, limit, limit)
	return uc.consolidationRepo.List(ctx, scamType, params.PageSize, params.Offset)
}

// GetByID returns the group with the linked reports the viewer may see.
func (uc *ConsolidationUseCase) GetByID(ctx context.Context, id string, viewer *entity.Identity) (*ConsolidatedScamDetail, error) {
	group, err := uc.consolidationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, err := uc.consolidationRepo.ListReportIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	reports := make([]*entity.ScamReport, 0, len(ids))
	for _, reportID := range ids {
		report, err := uc.reportRepo.GetByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				continue
			}
			return nil, err
		}
		if report.VisibleTo(viewer) {
			reports = append(reports, report)
		}
	}

	return &ConsolidatedScamDetail{ConsolidatedScam: group, Reports: reports}, nil
}

// Verify is idempotent: an already verified group is returned unchanged.
func (uc *ConsolidationUseCase) Verify(ctx context.Context, id string, admin *entity.Identity) (*entity.ConsolidatedScam, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	group, err := uc.consolidationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.IsVerified {
		return group, nil
	}

	metrics.RecordTransition("verify_group")
	return uc.consolidationRepo.MarkVerified(ctx, id)
}

// Rebuild drops all groups and replays every report in reportedAt order.
// Submissions accepted while it runs stay linked exactly once.
func (uc *ConsolidationUseCase) Rebuild(ctx context.Context, admin *entity.Identity) (*RebuildResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	// Snapshot after the reset so reports submitted meanwhile are replayed.
	if err := uc.consolidationRepo.Reset(ctx); err != nil {
		return nil, err
	}
	reports, err := uc.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &RebuildResult{Reports: len(reports)}
	groups := make(map[string]struct{})
	verified := make(map[string]struct{})
	for _, report := range reports {
		group, err := uc.consolidate(ctx, report)
		if errors.Is(err, "ALREADY_LINKED") {
			// linked by a submission that raced the reset
			group, err = uc.consolidationRepo.GetByReportID(ctx, report.ID)
		}
		if err != nil {
			return nil, err
		}
		if group == nil {
			result.Skipped++
			continue
		}
		result.Linked++
		groups[group.ID] = struct{}{}

		if report.IsVerified {
			if _, err := uc.consolidationRepo.MarkVerified(ctx, group.ID); err != nil {
				return nil, err
			}
			verified[group.ID] = struct{}{}
		}
	}
	result.Groups = len(groups)
	result.Verified = len(verified)

	logger.WithFields(logger.Fields{
		"reports": result.Reports,
		"linked":  result.Linked,
		"skipped": result.Skipped,
		"groups":  result.Groups,
	}).Info("consolidation rebuilt")

	uc.stats.Refresh(ctx)
	return result, nil
}
