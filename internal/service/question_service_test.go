package service

import (
	"context"
	"testing"

	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestionService(t *testing.T) (QuestionService, repository.QuestionRepository) {
	t.Helper()
	db := testutil.DB(t)
	scheduler, err := NewLineScheduler(DefaultLines, DefaultWindow)
	require.NoError(t, err)
	repo := repository.NewQuestionRepository(db)
	return NewQuestionService(db, repo, scheduler), repo
}

func TestImportQuestions(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()
	passage := "Мой дядя самых честных правил..."

	created, err := svc.Import(ctx, dto.QuestionImportDTO{Questions: []dto.QuestionCreateDTO{
		{Line: 1, PromptText: "Назовите героя", AnswerSpec: "онегин|евгений онегин", PassageText: &passage},
		{Line: 8, PromptText: "Укажите номера", AnswerSpec: "146"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	line := 1
	list, err := svc.ListQuestions(ctx, dto.QuestionListQuery{Line: &line})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Назовите героя", list[0].PromptText)
	assert.True(t, list[0].Active)
	require.NotNil(t, list[0].PassageText)

	got, err := svc.GetQuestion(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "онегин|евгений онегин", got.AnswerSpec)
}

func TestImportRejectsWholeBatch(t *testing.T) {
	svc, repo := newQuestionService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		rows []dto.QuestionCreateDTO
	}{
		{"empty", nil},
		{"line outside rotation", []dto.QuestionCreateDTO{
			{Line: 1, PromptText: "ok", AnswerSpec: "a"},
			{Line: 4, PromptText: "bad", AnswerSpec: "a"},
		}},
		{"missing answer", []dto.QuestionCreateDTO{{Line: 1, PromptText: "q"}}},
		{"blank answer variants", []dto.QuestionCreateDTO{{Line: 1, PromptText: "q", AnswerSpec: " | "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, dto.QuestionImportDTO{Questions: tt.rows})
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}

	all, err := repo.List(ctx, repository.QuestionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
