package repository

import (
	"context"
	"errors"

	"scamwatch/internal/domain/entity"
)

// ErrAlreadyLinked is returned when a report already belongs to a consolidated scam.
var ErrAlreadyLinked = errors.New("report already linked to a consolidated scam")

// MutateFunc receives the group stored under a match key (nil when none exists)
// and returns the group to persist.
type MutateFunc func(existing *entity.ConsolidatedScam) (*entity.ConsolidatedScam, error)

type ConsolidationRepository interface {
	// Consolidate loads the group for matchKey, applies mutate, and stores the
	// group together with a link for reportID in a single transaction.
	// It fails with ErrAlreadyLinked if reportID is linked already.
	Consolidate(ctx context.Context, matchKey, reportID string, mutate MutateFunc) (*entity.ConsolidatedScam, error)
	GetByID(ctx context.Context, id string) (*entity.ConsolidatedScam, error)
	// GetByReportID returns nil, nil when the report has no link.
	GetByReportID(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error)
	List(ctx context.Context, scamType entity.ScamType, limit, offset int) ([]*entity.ConsolidatedScam, int64, error)
	ListReportIDs(ctx context.Context, consolidatedScamID string) ([]string, error)
	MarkVerified(ctx context.Context, id string) (*entity.ConsolidatedScam, error)
	// Reset drops every group and link.
	Reset(ctx context.Context) error
}
