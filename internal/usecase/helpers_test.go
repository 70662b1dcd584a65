package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scamwatch/internal/adapter/repository/memory"
	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
)

var (
	admin1 = &entity.Identity{UserID: "admin1", Role: entity.RoleAdmin}
	alice  = &entity.Identity{UserID: "alice", Role: entity.RoleUser}
	bob    = &entity.Identity{UserID: "bob", Role: entity.RoleUser}
)

// testClock advances one minute per call so every report gets a distinct reportedAt.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	store         *memory.Store
	clock         *testClock
	reports       *ScamReportUseCase
	consolidation *ConsolidationUseCase
	stats         *ScamStatsUseCase
	comments      *ScamCommentUseCase
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	canonical     bool
	notifier      service.Notifier
	storage       service.ProofStorage
	consolidation func(repository.ConsolidationRepository) repository.ConsolidationRepository
}

func withExactMatching() fixtureOption {
	return func(c *fixtureConfig) { c.canonical = false }
}

func withNotifier(n service.Notifier) fixtureOption {
	return func(c *fixtureConfig) { c.notifier = n }
}

func withProofStorage(s service.ProofStorage) fixtureOption {
	return func(c *fixtureConfig) { c.storage = s }
}

func withConsolidationRepo(wrap func(repository.ConsolidationRepository) repository.ConsolidationRepository) fixtureOption {
	return func(c *fixtureConfig) { c.consolidation = wrap }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := &fixtureConfig{canonical: true}
	for _, opt := range opts {
		opt(cfg)
	}

	store := memory.NewStore()
	clock := &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	reportRepo := memory.NewScamReportRepository(store)
	commentRepo := memory.NewScamCommentRepository(store)
	userRepo := memory.NewUserRepository(store)

	var consolidationRepo repository.ConsolidationRepository = memory.NewConsolidationRepository(store)
	if cfg.consolidation != nil {
		consolidationRepo = cfg.consolidation(consolidationRepo)
	}

	stats := NewScamStatsUseCase(reportRepo, memory.NewScamStatsRepository(store))
	consolidation := NewConsolidationUseCase(
		consolidationRepo,
		reportRepo,
		service.NewIdentifierMatcher(cfg.canonical, "US"),
		stats,
	)
	reports := NewScamReportUseCase(reportRepo, commentRepo, userRepo, consolidation, stats, cfg.notifier, cfg.storage).
		WithClock(clock.Now)
	comments := NewScamCommentUseCase(commentRepo, reportRepo)

	return &fixture{
		store:         store,
		clock:         clock,
		reports:       reports,
		consolidation: consolidation,
		stats:         stats,
		comments:      comments,
	}
}

func phoneReport(number, description string) SubmitReportInput {
	return SubmitReportInput{
		ScamType:        "phone",
		ScamPhoneNumber: number,
		IncidentDate:    "2026-02-20",
		Country:         "US",
		Description:     description,
	}
}

func emailReport(address, description string) SubmitReportInput {
	return SubmitReportInput{
		ScamType:     "email",
		ScamEmail:    address,
		IncidentDate: "2026-02-21T10:00:00Z",
		Description:  description,
	}
}

func (f *fixture) submit(t *testing.T, reporter *entity.Identity, input SubmitReportInput) *entity.ScamReport {
	t.Helper()
	report, err := f.reports.Submit(context.Background(), reporter, input)
	require.NoError(t, err)
	return report
}

func (f *fixture) group(t *testing.T, reportID string) *entity.ConsolidatedScam {
	t.Helper()
	group, err := f.consolidation.GroupForReport(context.Background(), reportID)
	require.NoError(t, err)
	return group
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) NotifyNewReport(context.Context, *entity.ScamReport) error {
	n.calls++
	return n.err
}

type fakeProofStorage struct {
	uploaded []string
}

func (s *fakeProofStorage) UploadFile(ctx context.Context, file io.Reader, fileType, fileName, folder string) (*service.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	s.uploaded = append(s.uploaded, fileName)
	return &service.UploadResult{
		URL:        "https://storage.example/" + folder + "/" + fileName,
		ObjectName: folder + "/" + fileName,
		Size:       int64(len(data)),
	}, nil
}

func (s *fakeProofStorage) DeleteFile(context.Context, string) error { return nil }

func (s *fakeProofStorage) Close() error { return nil }

// flakyConsolidationRepo fails the first markFailures MarkVerified calls.
type flakyConsolidationRepo struct {
	repository.ConsolidationRepository
	markFailures int
}

func (r *flakyConsolidationRepo) MarkVerified(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	if r.markFailures > 0 {
		r.markFailures--
		return nil, errors.New("transient storage failure")
	}
	return r.ConsolidationRepository.MarkVerified(ctx, id)
}

// hookedConsolidationRepo runs hooks around Reset.
type hookedConsolidationRepo struct {
	repository.ConsolidationRepository
	beforeReset func()
	afterReset  func()
}

func (r *hookedConsolidationRepo) Reset(ctx context.Context) error {
	if r.beforeReset != nil {
		r.beforeReset()
	}
	if err := r.ConsolidationRepository.Reset(ctx); err != nil {
		return err
	}
	if r.afterReset != nil {
		r.afterReset()
	}
	return nil
}
