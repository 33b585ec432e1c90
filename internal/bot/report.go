package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/rs/zerolog/log"
)

// publishReport queues the operator report: a header followed by one review
// card per incorrect item. Failures never reach the learner.
func (e *Engine) publishReport(ctx context.Context, learner *model.Learner, tally *service.Tally) {
	if e.opts.OperatorChatID == 0 {
		return
	}
	op := e.opts.OperatorChatID
	batch := []chat.Outbound{chat.Message(op, textReportHeader(learner.DisplayName, tally.Correct, tally.Total))}

	for _, a := range tally.Items {
		if a.Status != model.StatusIncorrect {
			continue
		}
		card := newReviewCard(op, learner, a)
		if err := e.cards.Create(ctx, card); err != nil {
			log.Error().Err(err).Uint("assignmentID", a.ID).Msg("Failed to store review card")
			continue
		}
		msg := RenderCard(card)
		msg.Kind = chat.OutboundMessage
		batch = append(batch, msg)
	}
	e.notifier.Notify(batch)
}

func newReviewCard(operatorChatID int64, learner *model.Learner, a model.Assignment) *model.ReviewCard {
	card := &model.ReviewCard{
		MessageRef:     uuid.NewString(),
		OperatorChatID: operatorChatID,
		AssignmentID:   a.ID,
		QuestionID:     a.QuestionID,
		LearnerName:    learner.DisplayName,
		Line:           a.Question.Line,
		QuestionText:   a.Question.PromptText,
		ExpectedAnswer: a.Question.AnswerSpec,
	}
	if a.Question.PassageText != nil {
		card.PassageText = *a.Question.PassageText
	}
	if a.SubmittedText != nil {
		card.SubmittedText = *a.SubmittedText
	}
	return card
}

// RenderCard builds the card text and buttons from its facts and annotations.
// The result depends only on the card, so every edit re-renders from scratch.
func RenderCard(card *model.ReviewCard) chat.Outbound {
	answer := card.SubmittedText
	if strings.TrimSpace(answer) == "" {
		answer = textNoAnswer
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❌ Ошибка (Линия %d)\n\n", card.Line)
	fmt.Fprintf(&b, "❓ Вопрос: %s\n", truncate(card.QuestionText, cardQuestionLimit))
	fmt.Fprintf(&b, "👤 Ответ ученика: %s\n", answer)
	fmt.Fprintf(&b, "✅ Правильно: %s", card.ExpectedAnswer)

	for _, a := range card.Annotations {
		switch a {
		case model.AnnotationPassage:
			if card.PassageText != "" {
				b.WriteString("\n\n📜 Текст произведения:\n")
				b.WriteString(truncate(card.PassageText, operatorPassageLimit))
			}
		case model.AnnotationMarkedCorrect:
			b.WriteString("\n\n")
			b.WriteString(textMarkedCorrect)
		case model.AnnotationRetired:
			b.WriteString("\n\n")
			b.WriteString(textRetired)
		}
	}

	var rows [][]chat.Button
	if card.PassageText != "" {
		if card.Has(model.AnnotationPassage) {
			rows = append(rows, opButton(textHidePassage, chat.ActionHidePassage, card.AssignmentID))
		} else {
			rows = append(rows, opButton(textShowPassage, chat.ActionPassage, card.AssignmentID))
		}
	}
	if card.Has(model.AnnotationMarkedCorrect) {
		rows = append(rows, opButton(textMarkIncorrect, chat.ActionMarkIncorrect, card.AssignmentID))
	} else {
		rows = append(rows, opButton(textMarkCorrect, chat.ActionMarkCorrect, card.AssignmentID))
	}
	if card.Has(model.AnnotationRetired) {
		rows = append(rows, opButton(textRestore, chat.ActionRestore, card.QuestionID))
	} else {
		rows = append(rows, opButton(textRetire, chat.ActionRetire, card.QuestionID))
	}

	return chat.Edit(card.OperatorChatID, card.MessageRef, b.String(), rows)
}

func opButton(label string, action chat.Action, target uint) []chat.Button {
	return []chat.Button{{Label: label, Callback: chat.OperatorCallback(action, target).Encode()}}
}
