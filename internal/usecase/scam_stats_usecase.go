package usecase

import (
	"context"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/metrics"
)

// StatsRefresher is invalidated by every report mutation.
type StatsRefresher interface {
	Refresh(ctx context.Context)
}

type ScamStatsUseCase struct {
	reportRepo repository.ScamReportRepository
	statsRepo  repository.ScamStatsRepository
	now        func() time.Time
}

func NewScamStatsUseCase(
	reportRepo repository.ScamReportRepository,
	statsRepo repository.ScamStatsRepository,
) *ScamStatsUseCase {
	return &ScamStatsUseCase{
		reportRepo: reportRepo,
		statsRepo:  statsRepo,
		now:        time.Now,
	}
}

// Recompute aggregates every scope from the current report set, stores the
// snapshots and returns the one for scope.
func (uc *ScamStatsUseCase) Recompute(ctx context.Context, scope entity.StatsScope) (*entity.ScamStats, error) {
	done := metrics.StartStatsRecompute()
	defer done()

	reports, err := uc.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var wanted *entity.ScamStats
	for _, s := range []entity.StatsScope{entity.StatsScopePublic, entity.StatsScopeAll} {
		snapshot := service.AggregateStats(reports, s, now)
		if err := uc.statsRepo.Save(ctx, snapshot); err != nil {
			return nil, err
		}
		if s == scope {
			wanted = snapshot
		}
	}
	if wanted == nil {
		return nil, errors.BadRequest("unknown stats scope", nil)
	}
	return wanted, nil
}

// Refresh recomputes every scope and only logs failures.
func (uc *ScamStatsUseCase) Refresh(ctx context.Context) {
	if _, err := uc.Recompute(ctx, entity.StatsScopePublic); err != nil {
		logger.WithError(err).Warn("stats recompute failed")
	}
}

// Latest returns the snapshot for the viewer's scope, computing one if none exists yet.
func (uc *ScamStatsUseCase) Latest(ctx context.Context, viewer *entity.Identity) (*entity.ScamStats, error) {
	scope := entity.StatsScopePublic
	if viewer.IsAdmin() {
		scope = entity.StatsScopeAll
	}

	stats, err := uc.statsRepo.Latest(ctx, scope)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}
	return uc.Recompute(ctx, scope)
}
