package repository

import (
	"context"

	"scamwatch/internal/domain/entity"
)

type ScamStatsRepository interface {
	// Save replaces the snapshot stored for stats.Scope.
	Save(ctx context.Context, stats *entity.ScamStats) error
	// Latest returns nil, nil when no snapshot exists for scope.
	Latest(ctx context.Context, scope entity.StatsScope) (*entity.ScamStats, error)
}
