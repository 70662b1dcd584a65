package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
)

// newEmulatorClient connects to the Firestore emulator under a fresh project
// so tests never see each other's documents.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "scamwatch-"+uuid.New().String()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFirestoreConsolidate(t *testing.T) {
	ctx := context.Background()
	repo := NewFirestoreConsolidationRepository(newEmulatorClient(t))
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mutate := func(existing *entity.ConsolidatedScam) (*entity.ConsolidatedScam, error) {
		if existing == nil {
			return &entity.ConsolidatedScam{ScamType: entity.ScamTypePhone, Identifier: "555-0100", ReportCount: 1, FirstReportedAt: now, LastReportedAt: now}, nil
		}
		existing.ReportCount++
		return existing, nil
	}

	first, err := repo.Consolidate(ctx, "phone:+15550100", "r1", mutate)
	require.NoError(t, err)
	second, err := repo.Consolidate(ctx, "phone:+15550100", "r2", mutate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.ReportCount)

	_, err = repo.Consolidate(ctx, "phone:+15550100", "r1", mutate)
	assert.ErrorIs(t, err, repository.ErrAlreadyLinked)

	ids, err := repo.ListReportIDs(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)

	group, err := repo.GetByReportID(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, 2, group.ReportCount)

	require.NoError(t, repo.Reset(ctx))
	group, err = repo.GetByReportID(ctx, "r2")
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestFirestoreReportListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewFirestoreScamReportRepository(newEmulatorClient(t))
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hidden := false

	require.NoError(t, repo.Create(ctx, &entity.ScamReport{ID: "a", ReporterID: "alice", ScamType: entity.ScamTypePhone, ScamPhoneNumber: "555-0100", Description: "call", ReportedAt: now}))
	require.NoError(t, repo.Create(ctx, &entity.ScamReport{ID: "b", ReporterID: "bob", ScamType: entity.ScamTypePhone, ScamPhoneNumber: "555-0199", Description: "call", ReportedAt: now.Add(time.Minute), IsPublished: &hidden}))

	public, total, err := repo.List(ctx, entity.ScamReportFilter{PublishedOnly: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, public, 1)
	assert.Equal(t, "a", public[0].ID)

	all, _, err := repo.List(ctx, entity.ScamReportFilter{Search: "0199"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)

	err = repo.Update(ctx, &entity.ScamReport{ID: "missing"})
	assert.Error(t, err)
}
