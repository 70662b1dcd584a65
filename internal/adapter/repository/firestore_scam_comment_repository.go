package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

type firestoreScamCommentRepository struct {
	client *firestore.Client
}

func NewFirestoreScamCommentRepository(client *firestore.Client) repository.ScamCommentRepository {
	return &firestoreScamCommentRepository{
		client: client,
	}
}

func (r *firestoreScamCommentRepository) Create(ctx context.Context, comment *entity.ScamComment) error {
	if comment.ID == "" {
		comment.ID = r.client.Collection("scam_comments").NewDoc().ID
	}

	_, err := r.client.Collection("scam_comments").Doc(comment.ID).Set(ctx, comment)
	if err != nil {
		return errors.Internal("Failed to create comment", err)
	}
	return nil
}

func (r *firestoreScamCommentRepository) ListByReport(ctx context.Context, reportID string) ([]*entity.ScamComment, error) {
	docs, err := r.client.Collection("scam_comments").Where("reportId", "==", reportID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list comments", err)
	}

	comments := make([]*entity.ScamComment, 0, len(docs))
	for _, doc := range docs {
		var comment entity.ScamComment
		if err := doc.DataTo(&comment); err != nil {
			return nil, errors.Internal("Failed to parse comment data", err)
		}
		comments = append(comments, &comment)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
