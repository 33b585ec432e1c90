package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInvalidImport wraps validation failures of an import payload.
var ErrInvalidImport = errors.New("invalid question import")

type QuestionService interface {
	Import(ctx context.Context, req dto.QuestionImportDTO) (int, error)
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error)
	ListQuestions(ctx context.Context, query dto.QuestionListQuery) ([]dto.QuestionResponse, error)
}

type questionService struct {
	db       *gorm.DB
	repo     repository.QuestionRepository
	lines    map[int]bool
	validate *validator.Validate
}

func NewQuestionService(db *gorm.DB, repo repository.QuestionRepository, scheduler LineScheduler) QuestionService {
	lines := make(map[int]bool)
	for _, l := range scheduler.Lines() {
		lines[l] = true
	}
	return &questionService{db: db, repo: repo, lines: lines, validate: validator.New()}
}

// Import validates every row, then inserts all of them in one transaction.
func (s *questionService) Import(ctx context.Context, req dto.QuestionImportDTO) (int, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		if !s.lines[q.Line] {
			return 0, fmt.Errorf("%w: question %d has line %d outside the rotation", ErrInvalidImport, i+1, q.Line)
		}
		if len(AcceptedVariants(q.AnswerSpec)) == 0 {
			return 0, fmt.Errorf("%w: question %d has an empty answer spec", ErrInvalidImport, i+1)
		}
		var question model.Question
		if err := copier.Copy(&question, &q); err != nil {
			return 0, fmt.Errorf("copy question %d: %w", i+1, err)
		}
		question.Active = true
		questions = append(questions, question)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateBatch(ctx, questions)
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(questions)).Msg("Failed to import questions")
		return 0, fmt.Errorf("database error importing questions: %w", err)
	}
	log.Info().Int("count", len(questions)).Msg("Questions imported")
	return len(questions), nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) ListQuestions(ctx context.Context, query dto.QuestionListQuery) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.List(ctx, repository.QuestionFilter{Line: query.Line, Active: query.Active})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list questions")
		return nil, err
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	copier.Copy(&resp, &questions)
	return resp, nil
}
