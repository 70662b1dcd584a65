package sqlstore

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	apperrors "scamwatch/pkg/errors"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func boolPtr(b bool) *bool { return &b }

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := NewClient(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewClient(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewScamReportRepository(newTestClient(t))

	verifiedAt := base.Add(time.Hour)
	admin := "admin1"
	report := &entity.ScamReport{
		ReporterID:      "alice",
		ScamType:        entity.ScamTypePhone,
		ScamPhoneNumber: "(555) 010-0100",
		IncidentDate:    base.AddDate(0, 0, -3),
		Country:         "US",
		Description:     "IRS impersonation",
		Proof:           &entity.ProofFile{Path: "https://storage.example/p.png", FileName: "p.png", FileType: "image/png", FileSize: 42},
		ReportedAt:      base,
		IsVerified:      true,
		VerifiedBy:      &admin,
		VerifiedAt:      &verifiedAt,
		IsPublished:     boolPtr(true),
	}
	require.NoError(t, repo.Create(ctx, report))
	require.NotEmpty(t, report.ID)

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestReportLegacyPublishedFlag(t *testing.T) {
	ctx := context.Background()
	repo := NewScamReportRepository(newTestClient(t))

	legacy := &entity.ScamReport{ReporterID: "alice", ScamType: entity.ScamTypeEmail, ScamEmail: "a@x.example", Description: "old", ReportedAt: base}
	require.NoError(t, repo.Create(ctx, legacy))

	got, err := repo.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Nil(t, got.IsPublished)
	assert.True(t, got.Published())

	reports, total, err := repo.List(ctx, entity.ScamReportFilter{PublishedOnly: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reports, 1)
}

func TestReportListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewScamReportRepository(newTestClient(t))

	seed := []*entity.ScamReport{
		{ID: "p1", ReporterID: "alice", ScamType: entity.ScamTypePhone, ScamPhoneNumber: "(555) 010-0100", Description: "IRS call", ReportedAt: base, IsPublished: boolPtr(true)},
		{ID: "e1", ReporterID: "bob", ScamType: entity.ScamTypeEmail, ScamEmail: "prize@lottery.example", Description: "you won 100%", ReportedAt: base.Add(time.Minute), IsPublished: boolPtr(true), IsVerified: true},
		{ID: "b1", ReporterID: "alice", ScamType: entity.ScamTypeBusiness, ScamBusinessName: "Acme_Refunds", Description: "refund desk", City: "Springfield", ReportedAt: base.Add(2 * time.Minute), IsPublished: boolPtr(false)},
	}
	for _, r := range seed {
		require.NoError(t, repo.Create(ctx, r))
	}

	ids := func(filter entity.ScamReportFilter) []string {
		t.Helper()
		reports, total, err := repo.List(ctx, filter, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(len(reports)), total)
		out := []string{}
		for _, r := range reports {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"b1", "e1", "p1"}, ids(entity.ScamReportFilter{}))
	assert.Equal(t, []string{"e1", "p1"}, ids(entity.ScamReportFilter{PublishedOnly: true}))
	assert.Equal(t, []string{"p1"}, ids(entity.ScamReportFilter{ScamType: entity.ScamTypePhone}))
	assert.Equal(t, []string{"e1"}, ids(entity.ScamReportFilter{Verification: entity.VerificationVerified}))
	assert.Equal(t, []string{"b1", "p1"}, ids(entity.ScamReportFilter{Verification: entity.VerificationUnverified}))
	assert.Equal(t, []string{"b1", "p1"}, ids(entity.ScamReportFilter{ReporterID: "alice"}))
	assert.Equal(t, []string{"p1"}, ids(entity.ScamReportFilter{Search: "555.010"}))
	assert.Equal(t, []string{"e1"}, ids(entity.ScamReportFilter{Search: "LOTTERY"}))
	assert.Equal(t, []string{"e1"}, ids(entity.ScamReportFilter{Search: "%"}))
	assert.Equal(t, []string{"b1"}, ids(entity.ScamReportFilter{Search: "acme_"}))
	assert.Equal(t, []string{"b1"}, ids(entity.ScamReportFilter{Search: "springfield"}))
	assert.Empty(t, ids(entity.ScamReportFilter{Search: "nothing like this"}))
	assert.Empty(t, ids(entity.ScamReportFilter{Search: "refund 0100"}), "free text never matches on phone digits")
}

func TestReportListPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewScamReportRepository(newTestClient(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.ScamReport{
			ReporterID:      "alice",
			ScamType:        entity.ScamTypePhone,
			ScamPhoneNumber: "555-0100",
			Description:     "call",
			ReportedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := repo.List(ctx, entity.ScamReportFilter{}, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 1)
	assert.Equal(t, base, page[0].ReportedAt)

	beyond, total, err := repo.List(ctx, entity.ScamReportFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)

	far, total, err := repo.List(ctx, entity.ScamReportFilter{}, 20, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, far)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, base, all[0].ReportedAt)
}

func TestReportUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewScamReportRepository(newTestClient(t))

	report := &entity.ScamReport{ReporterID: "alice", ScamType: entity.ScamTypePhone, ScamPhoneNumber: "555-0100", Description: "call", ReportedAt: base, IsPublished: boolPtr(true)}
	require.NoError(t, repo.Create(ctx, report))

	admin := "admin1"
	at := base.Add(time.Hour)
	report.IsPublished = boolPtr(false)
	report.PublishedBy = &admin
	report.PublishedAt = &at
	require.NoError(t, repo.Update(ctx, report))

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, got.Published())
	assert.Equal(t, "admin1", *got.PublishedBy)
	assert.Equal(t, at, *got.PublishedAt)

	err = repo.Update(ctx, &entity.ScamReport{ID: "missing", ReportedAt: base})
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func increment(reportedAt time.Time, identifier string) repository.MutateFunc {
	return func(existing *entity.ConsolidatedScam) (*entity.ConsolidatedScam, error) {
		if existing == nil {
			return &entity.ConsolidatedScam{
				ScamType:        entity.ScamTypePhone,
				Identifier:      identifier,
				ReportCount:     1,
				FirstReportedAt: reportedAt,
				LastReportedAt:  reportedAt,
			}, nil
		}
		existing.ReportCount++
		if reportedAt.After(existing.LastReportedAt) {
			existing.LastReportedAt = reportedAt
		}
		return existing, nil
	}
}

func TestConsolidate(t *testing.T) {
	ctx := context.Background()
	repo := NewConsolidationRepository(newTestClient(t))

	none, err := repo.GetByReportID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := repo.Consolidate(ctx, "phone:+15550100", "r1", increment(base, "555-0100"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, first.ReportCount)

	second, err := repo.Consolidate(ctx, "phone:+15550100", "r2", increment(base.Add(time.Hour), "(555) 010-0"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.ReportCount)
	assert.Equal(t, "555-0100", second.Identifier)
	assert.Equal(t, base.Add(time.Hour), second.LastReportedAt)

	_, err = repo.Consolidate(ctx, "phone:+15550100", "r2", increment(base, "555-0100"))
	assert.ErrorIs(t, err, repository.ErrAlreadyLinked)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ReportCount)
	assert.Equal(t, "phone:+15550100", stored.MatchKey)

	ids, err := repo.ListReportIDs(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)

	byReport, err := repo.GetByReportID(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byReport.ID)

	verified, err := repo.MarkVerified(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	_, err = repo.MarkVerified(ctx, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestConsolidateConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewConsolidationRepository(newTestClient(t))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reportID := "r" + string(rune('a'+i))
			_, err := repo.Consolidate(ctx, "phone:+15550100", reportID, increment(base.Add(time.Duration(i)*time.Second), "555-0100"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	groups, total, err := repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, n, groups[0].ReportCount)

	ids, err := repo.ListReportIDs(ctx, groups[0].ID)
	require.NoError(t, err)
	assert.Len(t, ids, n)
}

func TestConsolidationListAndReset(t *testing.T) {
	ctx := context.Background()
	repo := NewConsolidationRepository(newTestClient(t))

	_, err := repo.Consolidate(ctx, "phone:1", "r1", increment(base, "1"))
	require.NoError(t, err)
	later, err := repo.Consolidate(ctx, "phone:2", "r2", increment(base.Add(time.Hour), "2"))
	require.NoError(t, err)

	groups, total, err := repo.List(ctx, entity.ScamTypePhone, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, groups, 1)
	assert.Equal(t, later.ID, groups[0].ID)

	emails, total, err := repo.List(ctx, entity.ScamTypeEmail, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, emails)

	require.NoError(t, repo.Reset(ctx))
	_, total, err = repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	again, err := repo.Consolidate(ctx, "phone:1", "r1", increment(base, "1"))
	require.NoError(t, err, "links are cleared by reset")
	assert.Equal(t, 1, again.ReportCount)
}

func TestCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewScamCommentRepository(newTestClient(t))

	require.NoError(t, repo.Create(ctx, &entity.ScamComment{ReportID: "r1", AuthorID: "bob", Content: "second", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.ScamComment{ReportID: "r1", AuthorID: "alice", Content: "first", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.ScamComment{ReportID: "r2", AuthorID: "alice", Content: "elsewhere", CreatedAt: base}))

	comments, err := repo.ListByReport(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, base, comments[0].CreatedAt)

	empty, err := repo.ListByReport(ctx, "r3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStatsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewScamStatsRepository(newTestClient(t))

	missing, err := repo.Latest(ctx, entity.StatsScopePublic)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Save(ctx, &entity.ScamStats{Scope: entity.StatsScopePublic, TotalReports: 1, PhoneScams: 1, UpdatedAt: base}))
	require.NoError(t, repo.Save(ctx, &entity.ScamStats{Scope: entity.StatsScopePublic, TotalReports: 2, PhoneScams: 1, EmailScams: 1, UpdatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, &entity.ScamStats{Scope: entity.StatsScopeAll, TotalReports: 3, UpdatedAt: base}))

	public, err := repo.Latest(ctx, entity.StatsScopePublic)
	require.NoError(t, err)
	assert.Equal(t, &entity.ScamStats{Scope: entity.StatsScopePublic, TotalReports: 2, PhoneScams: 1, EmailScams: 1, UpdatedAt: base.Add(time.Minute)}, public)

	all, err := repo.Latest(ctx, entity.StatsScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalReports)
}

func TestUserUpsertKeepsRole(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestClient(t))

	require.NoError(t, repo.SetRole(ctx, "dave", entity.RoleAdmin))

	user, err := repo.Upsert(ctx, &entity.User{ID: "dave", Email: "dave@example.com", DisplayName: "Dave", Role: entity.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, "Dave", user.DisplayName)

	user, err = repo.Upsert(ctx, &entity.User{ID: "dave"})
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", user.Email, "blank fields do not erase the profile")

	fresh, err := repo.Upsert(ctx, &entity.User{ID: "erin"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, fresh.Role)

	users, err := repo.GetByIDs(ctx, []string{"dave", "erin", "nobody"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Dave", users["dave"].DisplayName)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.GetByID(ctx, "nobody")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}
