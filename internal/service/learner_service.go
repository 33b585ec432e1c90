package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrInvalidName is returned for a display name with fewer than two words.
var ErrInvalidName = errors.New("full name must contain surname and first name")

// Tally is the same-day result for one learner.
type Tally struct {
	Correct int
	Total   int
	Items   []model.Assignment
}

type LearnerService interface {
	Find(ctx context.Context, chatID int64) (*model.Learner, error)
	Register(ctx context.Context, chatID int64, handle, fullName string) (*model.Learner, error)
	DailyTally(ctx context.Context, learnerID uint, day string) (*Tally, error)
	TallyByChat(ctx context.Context, chatID int64, day string) (*dto.TallyResponse, error)
}

type learnerService struct {
	learners    repository.LearnerRepository
	assignments repository.AssignmentRepository
}

func NewLearnerService(learners repository.LearnerRepository, assignments repository.AssignmentRepository) LearnerService {
	return &learnerService{learners: learners, assignments: assignments}
}

// NormalizeFullName collapses whitespace and requires at least two tokens.
func NormalizeFullName(raw string) (string, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return "", ErrInvalidName
	}
	return strings.Join(fields, " "), nil
}

func (s *learnerService) Find(ctx context.Context, chatID int64) (*model.Learner, error) {
	learner, err := s.learners.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to load learner")
		return nil, fmt.Errorf("load learner %d: %w", chatID, err)
	}
	return learner, nil
}

// Register creates the learner, or renames an existing one.
func (s *learnerService) Register(ctx context.Context, chatID int64, handle, fullName string) (*model.Learner, error) {
	name, err := NormalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	existing, err := s.learners.FindByChatID(ctx, chatID)
	switch {
	case err == nil:
		if err := s.learners.UpdateName(ctx, existing.ID, name); err != nil {
			log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to rename learner")
			return nil, fmt.Errorf("rename learner: %w", err)
		}
		existing.DisplayName = name
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to look up learner")
		return nil, fmt.Errorf("look up learner: %w", err)
	}

	learner := model.Learner{ChatID: chatID, Handle: handle, DisplayName: name}
	if err := s.learners.Create(ctx, &learner); err != nil {
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to create learner")
		return nil, fmt.Errorf("create learner: %w", err)
	}
	log.Info().Int64("chatID", chatID).Uint("learnerID", learner.ID).Msg("Learner registered")
	return &learner, nil
}

func (s *learnerService) DailyTally(ctx context.Context, learnerID uint, day string) (*Tally, error) {
	items, err := s.assignments.FindForDay(ctx, learnerID, day)
	if err != nil {
		log.Error().Err(err).Uint("learnerID", learnerID).Str("day", day).Msg("Failed to load daily assignments")
		return nil, fmt.Errorf("load daily assignments: %w", err)
	}
	tally := &Tally{Total: len(items), Items: items}
	for _, a := range items {
		if a.Status == model.StatusCorrect {
			tally.Correct++
		}
	}
	return tally, nil
}

func (s *learnerService) TallyByChat(ctx context.Context, chatID int64, day string) (*dto.TallyResponse, error) {
	learner, err := s.Find(ctx, chatID)
	if err != nil {
		return nil, err
	}
	tally, err := s.DailyTally(ctx, learner.ID, day)
	if err != nil {
		return nil, err
	}
	resp := &dto.TallyResponse{
		ChatID:  chatID,
		Name:    learner.DisplayName,
		Day:     day,
		Correct: tally.Correct,
		Total:   tally.Total,
		Items:   make([]dto.AssignmentResponse, 0, len(tally.Items)),
	}
	for _, a := range tally.Items {
		resp.Items = append(resp.Items, ToAssignmentResponse(a))
	}
	return resp, nil
}

func ToAssignmentResponse(a model.Assignment) dto.AssignmentResponse {
	var resp dto.AssignmentResponse
	if err := copier.Copy(&resp, &a); err != nil {
		log.Error().Err(err).Uint("assignmentID", a.ID).Msg("Failed to copy Assignment model to AssignmentResponse")
	}
	resp.Status = a.Status.String()
	return resp
}
