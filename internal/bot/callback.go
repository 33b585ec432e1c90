package bot

import (
	"context"
	"errors"

	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/rs/zerolog/log"
)

// handleCallback routes button presses. Session state is never touched.
func (e *Engine) handleCallback(ctx context.Context, in chat.Inbound) ([]chat.Outbound, error) {
	cb, err := chat.ParseCallback(in.Callback)
	if err != nil {
		log.Warn().Err(err).Int64("chatID", in.ChatID).Str("callback", in.Callback).Msg("Rejected callback")
		return []chat.Outbound{chat.Alert(in.ChatID, textUnknownAction)}, nil
	}
	if cb.Scope == chat.ScopeLearner {
		return e.handleLearnerPassage(ctx, in.ChatID, cb.TargetID)
	}
	if e.opts.OperatorChatID == 0 || in.ChatID != e.opts.OperatorChatID {
		log.Warn().Int64("chatID", in.ChatID).Str("callback", in.Callback).Msg("Operator callback from non-operator chat")
		return []chat.Outbound{chat.Alert(in.ChatID, textForbidden)}, nil
	}
	return e.handleOperatorCallback(ctx, in, cb)
}

func (e *Engine) handleLearnerPassage(ctx context.Context, chatID int64, questionID uint) ([]chat.Outbound, error) {
	question, err := e.questions.FindByID(ctx, questionID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !question.HasPassage()) {
		return []chat.Outbound{chat.Alert(chatID, textPassageMissing)}, nil
	}
	if err != nil {
		return nil, err
	}
	return []chat.Outbound{chat.Message(chatID, textPassage(*question.PassageText))}, nil
}

func (e *Engine) handleOperatorCallback(ctx context.Context, in chat.Inbound, cb chat.Callback) ([]chat.Outbound, error) {
	card, err := e.findCard(ctx, in.MessageRef, cb)
	if err != nil {
		return nil, err
	}

	var alert string
	switch cb.Action {
	case chat.ActionPassage, chat.ActionHidePassage:
		if card == nil {
			return e.sendAssignmentPassage(ctx, in.ChatID, cb.TargetID)
		}
		if card.PassageText == "" {
			return []chat.Outbound{chat.Alert(in.ChatID, textPassageMissing)}, nil
		}
		card.Annotate(model.AnnotationPassage, cb.Action == chat.ActionPassage)

	case chat.ActionMarkCorrect, chat.ActionMarkIncorrect:
		correct := cb.Action == chat.ActionMarkCorrect
		_, err := e.moderation.SetGrade(ctx, cb.TargetID, correct)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return []chat.Outbound{chat.Alert(in.ChatID, textRecordMissing)}, nil
		case errors.Is(err, service.ErrNotGraded):
			return []chat.Outbound{chat.Alert(in.ChatID, textNotGraded)}, nil
		case err != nil:
			return nil, err
		}
		if card != nil {
			card.Annotate(model.AnnotationMarkedCorrect, correct)
		}
		alert = textGradeChanged

	case chat.ActionRetire, chat.ActionRestore:
		retire := cb.Action == chat.ActionRetire
		if retire {
			err = e.moderation.RetireQuestion(ctx, cb.TargetID)
		} else {
			err = e.moderation.RestoreQuestion(ctx, cb.TargetID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return []chat.Outbound{chat.Alert(in.ChatID, textRecordMissing)}, nil
		}
		if err != nil {
			return nil, err
		}
		if card != nil {
			card.Annotate(model.AnnotationRetired, retire)
		}
		alert = textQuestionChanged
	}

	var out []chat.Outbound
	if card != nil {
		if err := e.cards.UpdateAnnotations(ctx, card); err != nil {
			log.Error().Err(err).Str("messageRef", card.MessageRef).Msg("Failed to store card annotations")
			return nil, err
		}
		out = append(out, RenderCard(card))
	}
	if alert != "" {
		out = append(out, chat.Alert(in.ChatID, alert))
	}
	return out, nil
}

// findCard resolves the review card a callback belongs to, preferring the
// message it was pressed on. A nil card with nil error means none exists.
func (e *Engine) findCard(ctx context.Context, messageRef string, cb chat.Callback) (*model.ReviewCard, error) {
	matches := func(c *model.ReviewCard) bool {
		if cb.TargetsQuestion() {
			return c.QuestionID == cb.TargetID
		}
		return c.AssignmentID == cb.TargetID
	}

	if messageRef != "" {
		card, err := e.cards.FindByMessageRef(ctx, messageRef)
		if err == nil && matches(card) {
			return card, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	var (
		card *model.ReviewCard
		err  error
	)
	if cb.TargetsQuestion() {
		card, err = e.cards.FindLatestByQuestion(ctx, cb.TargetID)
	} else {
		card, err = e.cards.FindLatestByAssignment(ctx, cb.TargetID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (e *Engine) sendAssignmentPassage(ctx context.Context, chatID int64, assignmentID uint) ([]chat.Outbound, error) {
	assignment, err := e.assignments.FindByID(ctx, assignmentID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !assignment.Question.HasPassage()) {
		return []chat.Outbound{chat.Alert(chatID, textPassageMissing)}, nil
	}
	if err != nil {
		return nil, err
	}
	return []chat.Outbound{chat.Message(chatID, truncate(*assignment.Question.PassageText, operatorPassageLimit))}, nil
}
