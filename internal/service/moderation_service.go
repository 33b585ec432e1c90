package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrNotGraded is returned when re-grading an assignment still pending.
var ErrNotGraded = errors.New("assignment has not been graded yet")

// ModerationService applies operator corrections. None of its operations
// create assignments or touch a session in progress.
type ModerationService interface {
	SetGrade(ctx context.Context, assignmentID uint, correct bool) (*model.Assignment, error)
	RetireQuestion(ctx context.Context, questionID uint) error
	RestoreQuestion(ctx context.Context, questionID uint) error
}

type moderationService struct {
	assignments repository.AssignmentRepository
	questions   repository.QuestionRepository
}

func NewModerationService(assignments repository.AssignmentRepository, questions repository.QuestionRepository) ModerationService {
	return &moderationService{assignments: assignments, questions: questions}
}

// SetGrade only changes the status. The submitted text and date stay as
// recorded, so flipping back restores the row exactly.
func (s *moderationService) SetGrade(ctx context.Context, assignmentID uint, correct bool) (*model.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.Status.Graded() {
		return nil, ErrNotGraded
	}
	status := model.StatusIncorrect
	if correct {
		status = model.StatusCorrect
	}
	if assignment.Status == status {
		return assignment, nil
	}
	if err := s.assignments.SetStatus(ctx, assignmentID, status); err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Msg("SetGrade: failed to update status")
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	log.Info().Uint("assignmentID", assignmentID).Str("status", status.String()).Msg("Assignment re-graded")
	assignment.Status = status
	return assignment, nil
}

func (s *moderationService) RetireQuestion(ctx context.Context, questionID uint) error {
	return s.setActive(ctx, questionID, false)
}

func (s *moderationService) RestoreQuestion(ctx context.Context, questionID uint) error {
	return s.setActive(ctx, questionID, true)
}

func (s *moderationService) setActive(ctx context.Context, questionID uint, active bool) error {
	if err := s.questions.SetActive(ctx, questionID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		log.Error().Err(err).Uint("questionID", questionID).Bool("active", active).Msg("Failed to change question state")
		return fmt.Errorf("set question active=%t: %w", active, err)
	}
	log.Info().Uint("questionID", questionID).Bool("active", active).Msg("Question state changed")
	return nil
}
