package service

import (
	"context"
	"testing"

	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGradeTwiceRestoresRow(t *testing.T) {
	db := testutil.DB(t)
	learner := testutil.CreateLearner(t, db, 100, "Иванов Иван")
	q := testutil.CreateQuestion(t, db, 7, "онегин")
	original := testutil.CreateAssignment(t, db, learner.ID, q.ID, model.StatusIncorrect, "2026-01-05", "ленский")

	assignments := repository.NewAssignmentRepository(db)
	svc := NewModerationService(assignments, repository.NewQuestionRepository(db))
	ctx := context.Background()

	got, err := svc.SetGrade(ctx, original.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCorrect, got.Status)

	again, err := svc.SetGrade(ctx, original.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCorrect, again.Status)

	_, err = svc.SetGrade(ctx, original.ID, false)
	require.NoError(t, err)

	after, err := assignments.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIncorrect, after.Status)
	assert.Equal(t, original.AssignedDate, after.AssignedDate)
	require.NotNil(t, after.SubmittedText)
	assert.Equal(t, "ленский", *after.SubmittedText)
	assert.Equal(t, original.LearnerID, after.LearnerID)
	assert.Equal(t, original.QuestionID, after.QuestionID)
}

func TestSetGradeRejectsPendingAndMissing(t *testing.T) {
	db := testutil.DB(t)
	learner := testutil.CreateLearner(t, db, 100, "Иванов Иван")
	q := testutil.CreateQuestion(t, db, 7, "x")
	pending := testutil.CreateAssignment(t, db, learner.ID, q.ID, model.StatusPending, "2026-01-10", "")
	svc := NewModerationService(repository.NewAssignmentRepository(db), repository.NewQuestionRepository(db))

	_, err := svc.SetGrade(context.Background(), pending.ID, true)
	assert.ErrorIs(t, err, ErrNotGraded)

	_, err = svc.SetGrade(context.Background(), 9999, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRetireAndRestoreQuestion(t *testing.T) {
	db := testutil.DB(t)
	q := testutil.CreateQuestion(t, db, 7, "x")
	questions := repository.NewQuestionRepository(db)
	svc := NewModerationService(repository.NewAssignmentRepository(db), questions)
	ctx := context.Background()

	require.NoError(t, svc.RetireQuestion(ctx, q.ID))
	got, err := questions.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, svc.RestoreQuestion(ctx, q.ID))
	got, err = questions.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	assert.ErrorIs(t, svc.RetireQuestion(ctx, 9999), repository.ErrNotFound)
}
