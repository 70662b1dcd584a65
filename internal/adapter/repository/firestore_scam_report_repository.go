package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
)

const scamReportsCollection = "scam_reports"

type firestoreScamReportRepository struct {
	client *firestore.Client
}

func NewFirestoreScamReportRepository(client *firestore.Client) repository.ScamReportRepository {
	return &firestoreScamReportRepository{
		client: client,
	}
}

func (r *firestoreScamReportRepository) Create(ctx context.Context, report *entity.ScamReport) error {
	if report.ID == "" {
		report.ID = r.client.Collection(scamReportsCollection).NewDoc().ID
	}

	_, err := r.client.Collection(scamReportsCollection).Doc(report.ID).Create(ctx, report)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("report already exists")
		}
		return errors.Internal("Failed to create scam report", err)
	}
	return nil
}

func (r *firestoreScamReportRepository) GetByID(ctx context.Context, id string) (*entity.ScamReport, error) {
	doc, err := r.client.Collection(scamReportsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Scam report", err)
		}
		return nil, errors.Internal("Failed to get scam report", err)
	}

	var report entity.ScamReport
	if err := doc.DataTo(&report); err != nil {
		return nil, errors.Internal("Failed to parse scam report data", err)
	}
	report.ID = doc.Ref.ID
	return &report, nil
}

// List pushes equality filters down to Firestore; publication state and the
// free text search are applied in memory since Firestore has neither null-or-true
// queries nor substring matching.
func (r *firestoreScamReportRepository) List(ctx context.Context, filter entity.ScamReportFilter, limit, offset int) ([]*entity.ScamReport, int64, error) {
	query := r.client.Collection(scamReportsCollection).Query
	if filter.ScamType != "" {
		query = query.Where("scamType", "==", string(filter.ScamType))
	}
	if filter.ReporterID != "" {
		query = query.Where("reporterId", "==", filter.ReporterID)
	}
	switch filter.Verification {
	case entity.VerificationVerified:
		query = query.Where("isVerified", "==", true)
	case entity.VerificationUnverified:
		query = query.Where("isVerified", "==", false)
	}

	reports, err := r.collect(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*entity.ScamReport, 0, len(reports))
	for _, report := range reports {
		if service.MatchesFilter(report, filter) {
			matched = append(matched, report)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ReportedAt.After(matched[j].ReportedAt)
	})

	total := int64(len(matched))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*entity.ScamReport{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *firestoreScamReportRepository) ListAll(ctx context.Context) ([]*entity.ScamReport, error) {
	return r.collect(ctx, r.client.Collection(scamReportsCollection).OrderBy("reportedAt", firestore.Asc))
}

func (r *firestoreScamReportRepository) Update(ctx context.Context, report *entity.ScamReport) error {
	ref := r.client.Collection(scamReportsCollection).Doc(report.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, report)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Scam report", err)
		}
		return errors.Internal("Failed to update scam report", err)
	}
	return nil
}

func (r *firestoreScamReportRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.ScamReport, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	reports := []*entity.ScamReport{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate scam reports", err)
		}

		var report entity.ScamReport
		if err := doc.DataTo(&report); err != nil {
			return nil, errors.Internal("Failed to parse scam report data", err)
		}
		report.ID = doc.Ref.ID
		reports = append(reports, &report)
	}
	return reports, nil
}
