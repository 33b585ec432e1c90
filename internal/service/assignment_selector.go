package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Strategy names how fresh questions and debts are mixed into a queue.
type Strategy string

const (
	// StrategyNewFirst assigns one fresh question per scheduled line, then
	// appends every outstanding debt. The queue may exceed the quota.
	StrategyNewFirst Strategy = "new_first"
	// StrategyDebtFirst takes debts first and fills the rest of the quota
	// with fresh questions. Items already dated today count against the quota.
	StrategyDebtFirst Strategy = "debt_first"
)

const DefaultDailyQuota = 5

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyNewFirst, StrategyDebtFirst:
		return Strategy(s), nil
	case "":
		return StrategyNewFirst, nil
	default:
		return "", fmt.Errorf("unknown selection strategy %q", s)
	}
}

type AssignmentSelector interface {
	Strategy() Strategy
	// QuotaMet reports whether the learner already has a full day of assignments.
	QuotaMet(ctx context.Context, learnerID uint, day time.Time) (bool, error)
	// BuildQueue creates today's fresh assignments and returns the ordered queue.
	BuildQueue(ctx context.Context, learnerID uint, day time.Time) ([]session.Item, error)
	// ResumeQueue rebuilds the queue from pending assignments dated day.
	// It returns an empty queue when nothing is pending.
	ResumeQueue(ctx context.Context, learnerID uint, day time.Time) ([]session.Item, error)
}

type assignmentSelector struct {
	db          *gorm.DB
	questions   repository.QuestionRepository
	assignments repository.AssignmentRepository
	scheduler   LineScheduler
	strategy    Strategy
	quota       int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAssignmentSelector(
	db *gorm.DB,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	scheduler LineScheduler,
	strategy Strategy,
	quota int,
	rng *rand.Rand,
) AssignmentSelector {
	if quota <= 0 {
		quota = DefaultDailyQuota
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &assignmentSelector{
		db:          db,
		questions:   questions,
		assignments: assignments,
		scheduler:   scheduler,
		strategy:    strategy,
		quota:       quota,
		rng:         rng,
	}
}

func (s *assignmentSelector) Strategy() Strategy {
	return s.strategy
}

func (s *assignmentSelector) QuotaMet(ctx context.Context, learnerID uint, day time.Time) (bool, error) {
	count, err := s.assignments.CountForDay(ctx, learnerID, model.DayKey(day))
	if err != nil {
		log.Error().Err(err).Uint("learnerID", learnerID).Msg("QuotaMet: failed to count today's assignments")
		return false, fmt.Errorf("count assignments: %w", err)
	}
	return count >= int64(s.quota), nil
}

func (s *assignmentSelector) BuildQueue(ctx context.Context, learnerID uint, day time.Time) ([]session.Item, error) {
	dayKey := model.DayKey(day)
	lines := s.scheduler.LinesFor(day)
	if len(lines) > s.quota {
		lines = lines[:s.quota]
	}

	var queue []session.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		questions := s.questions.WithTx(tx)
		assignments := s.assignments.WithTx(tx)

		switch s.strategy {
		case StrategyDebtFirst:
			room, err := s.roomLeft(ctx, assignments, learnerID, dayKey)
			if err != nil {
				return err
			}
			if room == 0 {
				return nil
			}
			debts, err := assignments.FindDebts(ctx, learnerID, dayKey, room)
			if err != nil {
				return fmt.Errorf("find debts: %w", err)
			}
			queue = append(queue, debtItems(debts)...)
			fresh, err := s.assignFresh(ctx, questions, assignments, learnerID, dayKey, lines, room-len(queue))
			if err != nil {
				return err
			}
			queue = append(queue, fresh...)
		default:
			fresh, err := s.assignFresh(ctx, questions, assignments, learnerID, dayKey, lines, len(lines))
			if err != nil {
				return err
			}
			queue = append(queue, fresh...)
			debts, err := assignments.FindDebts(ctx, learnerID, dayKey, 0)
			if err != nil {
				return fmt.Errorf("find debts: %w", err)
			}
			queue = append(queue, debtItems(debts)...)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("learnerID", learnerID).Str("strategy", string(s.strategy)).Msg("BuildQueue: selection failed")
		return nil, err
	}

	log.Debug().
		Uint("learnerID", learnerID).
		Str("day", dayKey).
		Ints("lines", lines).
		Int("queue", len(queue)).
		Msg("Daily queue built")
	return queue, nil
}

// assignFresh walks lines in order and creates at most limit pending
// assignments, one per line. Lines without an unseen active question are skipped.
func (s *assignmentSelector) assignFresh(
	ctx context.Context,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	learnerID uint,
	dayKey string,
	lines []int,
	limit int,
) ([]session.Item, error) {
	var items []session.Item
	for _, line := range lines {
		if len(items) >= limit {
			break
		}
		candidates, err := questions.UnseenIDsByLine(ctx, learnerID, line)
		if err != nil {
			return nil, fmt.Errorf("find candidates for line %d: %w", line, err)
		}
		if len(candidates) == 0 {
			continue
		}
		questionID := candidates[s.intn(len(candidates))]

		assignment := model.Assignment{
			LearnerID:    learnerID,
			QuestionID:   questionID,
			Status:       model.StatusPending,
			AssignedDate: dayKey,
		}
		created, err := assignments.CreateIfAbsent(ctx, &assignment)
		if err != nil {
			return nil, fmt.Errorf("create assignment for question %d: %w", questionID, err)
		}
		if !created {
			log.Warn().Uint("learnerID", learnerID).Uint("questionID", questionID).Msg("Question already assigned concurrently, skipping line")
			continue
		}
		items = append(items, session.Item{
			AssignmentID: assignment.ID,
			QuestionID:   questionID,
			Line:         line,
		})
	}
	return items, nil
}

func (s *assignmentSelector) ResumeQueue(ctx context.Context, learnerID uint, day time.Time) ([]session.Item, error) {
	dayKey := model.DayKey(day)
	pending, err := s.assignments.FindPendingForDay(ctx, learnerID, dayKey)
	if err != nil {
		log.Error().Err(err).Uint("learnerID", learnerID).Msg("ResumeQueue: failed to load pending assignments")
		return nil, fmt.Errorf("find pending: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	fresh := make([]session.Item, 0, len(pending))
	for _, a := range pending {
		fresh = append(fresh, session.Item{AssignmentID: a.ID, QuestionID: a.QuestionID, Line: a.Question.Line})
	}

	switch s.strategy {
	case StrategyDebtFirst:
		room, err := s.roomLeft(ctx, s.assignments, learnerID, dayKey)
		if err != nil {
			return nil, err
		}
		if room == 0 {
			return fresh, nil
		}
		debts, err := s.assignments.FindDebts(ctx, learnerID, dayKey, room)
		if err != nil {
			return nil, fmt.Errorf("find debts: %w", err)
		}
		return append(debtItems(debts), fresh...), nil
	default:
		debts, err := s.assignments.FindDebts(ctx, learnerID, dayKey, 0)
		if err != nil {
			return nil, fmt.Errorf("find debts: %w", err)
		}
		return append(fresh, debtItems(debts)...), nil
	}
}

// roomLeft is how many more items the learner may be served on day.
// Assignments already dated day count whether pending or graded.
func (s *assignmentSelector) roomLeft(ctx context.Context, assignments repository.AssignmentRepository, learnerID uint, dayKey string) (int, error) {
	count, err := assignments.CountForDay(ctx, learnerID, dayKey)
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	if room := s.quota - int(count); room > 0 {
		return room, nil
	}
	return 0, nil
}

func (s *assignmentSelector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func debtItems(debts []model.Assignment) []session.Item {
	items := make([]session.Item, 0, len(debts))
	for _, d := range debts {
		items = append(items, session.Item{
			AssignmentID: d.ID,
			QuestionID:   d.QuestionID,
			Line:         d.Question.Line,
			Debt:         true,
		})
	}
	return items
}
