package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

const (
	consolidatedScamsCollection  = "consolidated_scams"
	consolidationLinksCollection = "report_consolidations"
)

type firestoreConsolidationRepository struct {
	client *firestore.Client
}

func NewFirestoreConsolidationRepository(client *firestore.Client) repository.ConsolidationRepository {
	return &firestoreConsolidationRepository{
		client: client,
	}
}

// groupDocID derives the group document from its match key, so two
// transactions racing on the same identifier contend on the same document.
func groupDocID(matchKey string) string {
	sum := sha256.Sum256([]byte(matchKey))
	return hex.EncodeToString(sum[:16])
}

func (r *firestoreConsolidationRepository) Consolidate(ctx context.Context, matchKey, reportID string, mutate repository.MutateFunc) (*entity.ConsolidatedScam, error) {
	groupRef := r.client.Collection(consolidatedScamsCollection).Doc(groupDocID(matchKey))
	linkRef := r.client.Collection(consolidationLinksCollection).Doc(reportID)

	var group *entity.ConsolidatedScam
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(linkRef)
		if err == nil {
			return repository.ErrAlreadyLinked
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		var existing *entity.ConsolidatedScam
		doc, err := tx.Get(groupRef)
		switch {
		case err == nil:
			existing = &entity.ConsolidatedScam{}
			if err := doc.DataTo(existing); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}

		next, err := mutate(existing)
		if err != nil {
			return err
		}
		next.ID = groupRef.ID
		next.MatchKey = matchKey

		if err := tx.Set(groupRef, next); err != nil {
			return err
		}
		if err := tx.Create(linkRef, &entity.ReportConsolidationLink{
			ID:                 reportID,
			ReportID:           reportID,
			ConsolidatedScamID: next.ID,
		}); err != nil {
			return err
		}

		group = next
		return nil
	})
	if stderrors.Is(err, repository.ErrAlreadyLinked) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Internal("Failed to consolidate report", err)
	}
	return group, nil
}

func (r *firestoreConsolidationRepository) GetByID(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	doc, err := r.client.Collection(consolidatedScamsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Consolidated scam", err)
		}
		return nil, errors.Internal("Failed to get consolidated scam", err)
	}

	var group entity.ConsolidatedScam
	if err := doc.DataTo(&group); err != nil {
		return nil, errors.Internal("Failed to parse consolidated scam data", err)
	}
	return &group, nil
}

func (r *firestoreConsolidationRepository) GetByReportID(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error) {
	doc, err := r.client.Collection(consolidationLinksCollection).Doc(reportID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Internal("Failed to get consolidation link", err)
	}

	var link entity.ReportConsolidationLink
	if err := doc.DataTo(&link); err != nil {
		return nil, errors.Internal("Failed to parse consolidation link", err)
	}
	return r.GetByID(ctx, link.ConsolidatedScamID)
}

func (r *firestoreConsolidationRepository) List(ctx context.Context, scamType entity.ScamType, limit, offset int) ([]*entity.ConsolidatedScam, int64, error) {
	query := r.client.Collection(consolidatedScamsCollection).Query
	if scamType != "" {
		query = query.Where("scamType", "==", string(scamType))
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list consolidated scams", err)
	}

	groups := make([]*entity.ConsolidatedScam, 0, len(docs))
	for _, doc := range docs {
		var group entity.ConsolidatedScam
		if err := doc.DataTo(&group); err != nil {
			return nil, 0, errors.Internal("Failed to parse consolidated scam data", err)
		}
		groups = append(groups, &group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastReportedAt.After(groups[j].LastReportedAt)
	})

	total := int64(len(groups))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(groups) {
		return []*entity.ConsolidatedScam{}, total, nil
	}
	groups = groups[offset:]
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}
	return groups, total, nil
}

func (r *firestoreConsolidationRepository) ListReportIDs(ctx context.Context, consolidatedScamID string) ([]string, error) {
	iter := r.client.Collection(consolidationLinksCollection).
		Where("consolidatedScamId", "==", consolidatedScamID).
		Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list consolidation links", err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *firestoreConsolidationRepository) MarkVerified(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	_, err := r.client.Collection(consolidatedScamsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isVerified", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Consolidated scam", err)
		}
		return nil, errors.Internal("Failed to verify consolidated scam", err)
	}
	return r.GetByID(ctx, id)
}

func (r *firestoreConsolidationRepository) Reset(ctx context.Context) error {
	bw := r.client.BulkWriter(ctx)
	for _, name := range []string{consolidationLinksCollection, consolidatedScamsCollection} {
		refs, err := r.client.Collection(name).DocumentRefs(ctx).GetAll()
		if err != nil {
			bw.End()
			return errors.Internal("Failed to list "+name, err)
		}
		for _, ref := range refs {
			if _, err := bw.Delete(ref); err != nil {
				bw.End()
				return errors.Internal("Failed to delete "+name, err)
			}
		}
	}
	bw.End()
	return nil
}
