package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type firestoreScamStatsRepository struct {
	client *firestore.Client
}

func NewFirestoreScamStatsRepository(client *firestore.Client) repository.ScamStatsRepository {
	return &firestoreScamStatsRepository{
		client: client,
	}
}

// Save overwrites the snapshot document of the scope.
func (r *firestoreScamStatsRepository) Save(ctx context.Context, stats *entity.ScamStats) error {
	_, err := r.client.Collection("scam_stats").Doc(string(stats.Scope)).Set(ctx, stats)
	if err != nil {
		return errors.Internal("Failed to save scam stats", err)
	}
	return nil
}

func (r *firestoreScamStatsRepository) Latest(ctx context.Context, scope entity.StatsScope) (*entity.ScamStats, error) {
	doc, err := r.client.Collection("scam_stats").Doc(string(scope)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Internal("Failed to get scam stats", err)
	}

	var stats entity.ScamStats
	if err := doc.DataTo(&stats); err != nil {
		return nil, errors.Internal("Failed to parse scam stats", err)
	}
	return &stats, nil
}
