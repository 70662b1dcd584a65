package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scamwatch/pkg/errors"
)

func TestCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	report := f.submit(t, alice, phoneReport("555-0100", "robocall"))

	_, err := f.comments.Create(ctx, nil, report.ID, "hello")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))

	_, err = f.comments.Create(ctx, bob, report.ID, "   ")
	assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))

	_, err = f.comments.Create(ctx, bob, "missing", "hello")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	first, err := f.comments.Create(ctx, bob, report.ID, " same here ")
	require.NoError(t, err)
	assert.Equal(t, "same here", first.Content)
	assert.Equal(t, "bob", first.AuthorID)
	assert.NotEmpty(t, first.ID)

	_, err = f.comments.Create(ctx, alice, report.ID, "thanks")
	require.NoError(t, err)

	comments, err := f.comments.ListByReport(ctx, nil, report.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "same here", comments[0].Content)
	assert.Equal(t, "thanks", comments[1].Content)
}

func TestCommentsOnUnpublishedReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	report := f.submit(t, alice, phoneReport("555-0100", "robocall"))
	_, err := f.reports.Unpublish(ctx, admin1, report.ID)
	require.NoError(t, err)

	_, err = f.comments.Create(ctx, bob, report.ID, "hello")
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))

	_, err = f.comments.ListByReport(ctx, nil, report.ID)
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))

	_, err = f.comments.Create(ctx, alice, report.ID, "added context")
	assert.NoError(t, err)
}
