package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/notifier"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/lshigami/litdrill/internal/session"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// Resume rebuilds the queue from today's pending assignments when no
	// session is active.
	Resume         bool
	OperatorChatID int64
	Location       *time.Location
	Now            func() time.Time
}

// Engine drives learners through their daily queue and applies operator
// callbacks. Events for one chat are handled one at a time.
type Engine struct {
	learners    service.LearnerService
	questions   repository.QuestionRepository
	assignments repository.AssignmentRepository
	cards       repository.ReviewCardRepository
	selector    service.AssignmentSelector
	validator   service.AnswerValidator
	moderation  service.ModerationService
	sessions    session.Store
	notifier    notifier.Notifier
	opts        Options
	locks       *keyedLocker
}

func NewEngine(
	learners service.LearnerService,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	cards repository.ReviewCardRepository,
	selector service.AssignmentSelector,
	validator service.AnswerValidator,
	moderation service.ModerationService,
	sessions session.Store,
	notify notifier.Notifier,
	opts Options,
) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		learners:    learners,
		questions:   questions,
		assignments: assignments,
		cards:       cards,
		selector:    selector,
		validator:   validator,
		moderation:  moderation,
		sessions:    sessions,
		notifier:    notify,
		opts:        opts,
		locks:       newKeyedLocker(),
	}
}

// replies collects the outbound messages of one event.
type replies struct {
	chatID int64
	out    []chat.Outbound
}

func (r *replies) add(msg chat.Outbound) {
	r.out = append(r.out, msg)
}

func (r *replies) text(text string) {
	r.add(chat.Message(r.chatID, text))
}

// withMenu sends text with the persistent trigger keyboard.
func (r *replies) withMenu(text string) {
	r.add(chat.Message(r.chatID, text).WithKeyboard(TriggerLabel))
}

func (e *Engine) today() time.Time {
	return e.opts.Now().In(e.opts.Location)
}

// Handle processes one inbound event and returns the replies for the sender.
// An error means the event failed as a whole; other chats are unaffected.
func (e *Engine) Handle(ctx context.Context, in chat.Inbound) ([]chat.Outbound, error) {
	unlock := e.locks.Lock(in.ChatID)
	defer unlock()

	if in.Kind == chat.EventCallback {
		return e.handleCallback(ctx, in)
	}

	sess, err := e.sessions.Load(ctx, in.ChatID)
	if err != nil {
		log.Error().Err(err).Int64("chatID", in.ChatID).Msg("Failed to load session")
		return nil, fmt.Errorf("load session: %w", err)
	}

	r := &replies{chatID: in.ChatID}
	switch {
	case in.Kind == chat.EventCommand && in.Command == CommandStart:
		err = e.handleStart(ctx, in, sess, r)
	case e.isTrigger(in):
		err = e.handleTrigger(ctx, in, sess, r)
	case sess.State == session.RegisteringName:
		err = e.handleName(ctx, in, sess, r)
	case sess.State == session.AwaitingAnswer:
		err = e.handleAnswer(ctx, in, sess, r)
	default:
		err = e.handleUnknown(ctx, in, sess, r)
	}
	if err != nil {
		log.Error().Err(err).Int64("chatID", in.ChatID).Str("state", string(sess.State)).Msg("Failed to handle event")
		return nil, err
	}

	if err := e.sessions.Save(ctx, in.ChatID, sess); err != nil {
		log.Error().Err(err).Int64("chatID", in.ChatID).Msg("Failed to save session")
		return nil, fmt.Errorf("save session: %w", err)
	}
	return r.out, nil
}

func (e *Engine) isTrigger(in chat.Inbound) bool {
	switch in.Kind {
	case chat.EventCommand:
		return in.Command == CommandTasks
	case chat.EventText:
		return strings.TrimSpace(in.Text) == TriggerLabel
	}
	return false
}

func (e *Engine) handleStart(ctx context.Context, in chat.Inbound, sess *session.Context, r *replies) error {
	learner, err := e.learners.Find(ctx, in.ChatID)
	switch {
	case err == nil:
		r.withMenu(textWelcomeBack(learner.DisplayName))
		return nil
	case errors.Is(err, repository.ErrNotFound):
		sess.Reset()
		sess.State = session.RegisteringName
		r.text(textGreeting)
		return nil
	default:
		return err
	}
}

func (e *Engine) handleName(ctx context.Context, in chat.Inbound, sess *session.Context, r *replies) error {
	if in.Kind != chat.EventText {
		r.text(textNameRetry)
		return nil
	}
	learner, err := e.learners.Register(ctx, in.ChatID, in.Handle, in.Text)
	if errors.Is(err, service.ErrInvalidName) {
		r.text(textNameRetry)
		return nil
	}
	if err != nil {
		return err
	}
	sess.Reset()
	r.withMenu(textRegistered(learner.DisplayName))
	return nil
}

func (e *Engine) handleTrigger(ctx context.Context, in chat.Inbound, sess *session.Context, r *replies) error {
	learner, err := e.learners.Find(ctx, in.ChatID)
	if errors.Is(err, repository.ErrNotFound) {
		if sess.State == session.RegisteringName {
			r.text(textNameRetry)
		} else {
			r.text(textNotRegistered)
		}
		return nil
	}
	if err != nil {
		return err
	}

	today := e.today()
	dayKey := model.DayKey(today)

	// A queue already running today is presented again from its cursor.
	if sess.State == session.AwaitingAnswer && sess.Day == dayKey {
		if _, ok := sess.Current(); ok {
			sess.State = session.Presenting
			return e.present(ctx, sess, r)
		}
	}

	if e.opts.Resume {
		queue, err := e.selector.ResumeQueue(ctx, learner.ID, today)
		if err != nil {
			return err
		}
		if len(queue) > 0 {
			r.text(textResume)
			sess.Start(dayKey, queue)
			return e.present(ctx, sess, r)
		}
	}

	met, err := e.selector.QuotaMet(ctx, learner.ID, today)
	if err != nil {
		return err
	}
	if met {
		sess.Reset()
		r.withMenu(textPlanComplete)
		return nil
	}

	queue, err := e.selector.BuildQueue(ctx, learner.ID, today)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		sess.Reset()
		r.withMenu(textNoTasks)
		return nil
	}

	log.Info().Int64("chatID", in.ChatID).Int("items", len(queue)).Str("day", dayKey).Msg("Daily session started")
	sess.Start(dayKey, queue)
	return e.present(ctx, sess, r)
}

// present emits the item under the cursor and waits for the answer.
func (e *Engine) present(ctx context.Context, sess *session.Context, r *replies) error {
	item, ok := sess.Current()
	if !ok {
		return e.finish(ctx, sess, r)
	}
	question, err := e.questions.FindByID(ctx, item.QuestionID)
	if errors.Is(err, repository.ErrNotFound) {
		sess.Reset()
		r.withMenu(textStateLost)
		return nil
	}
	if err != nil {
		return err
	}

	var b strings.Builder
	if item.Debt {
		b.WriteString(textDebtHeader)
		b.WriteString("\n\n")
	}
	b.WriteString(textTaskHeader(sess.Cursor+1, question.Line))
	b.WriteString("\n\n")
	b.WriteString(question.PromptText)
	if question.OptionsText != nil && *question.OptionsText != "" {
		b.WriteString("\n\n")
		b.WriteString(*question.OptionsText)
	}

	msg := chat.Message(r.chatID, b.String())
	if question.HasPassage() {
		msg = msg.WithButtons([]chat.Button{{
			Label:    textShowPassage,
			Callback: chat.LearnerCallback(chat.ActionPassage, question.ID).Encode(),
		}})
	}
	r.add(msg)
	sess.State = session.AwaitingAnswer
	return nil
}

func (e *Engine) handleAnswer(ctx context.Context, in chat.Inbound, sess *session.Context, r *replies) error {
	answer := strings.TrimSpace(in.Text)
	if in.Kind != chat.EventText || answer == "" {
		r.text(textAnswerAsText)
		return nil
	}

	item, ok := sess.Current()
	// A queue from an earlier day is dropped rather than graded under today's date.
	if !ok || sess.Day != model.DayKey(e.today()) {
		sess.Reset()
		r.withMenu(textStateLost)
		return nil
	}
	assignment, err := e.assignments.FindByID(ctx, item.AssignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		sess.Reset()
		r.withMenu(textStateLost)
		return nil
	}
	if err != nil {
		return err
	}

	correct := e.validator.Validate(assignment.Question.Line, assignment.Question.AnswerSpec, answer)
	status := model.StatusIncorrect
	if correct {
		status = model.StatusCorrect
	}
	if err := e.assignments.Grade(ctx, assignment.ID, status, answer, model.DayKey(e.today())); err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Msg("Failed to record answer")
		return fmt.Errorf("record answer: %w", err)
	}
	if correct {
		r.text(textCorrect)
	} else {
		r.text(textIncorrect)
	}

	if sess.Advance() {
		sess.State = session.Presenting
		return e.present(ctx, sess, r)
	}
	return e.finish(ctx, sess, r)
}

// finish reports the same-day tally and hands incorrect items to the operator.
func (e *Engine) finish(ctx context.Context, sess *session.Context, r *replies) error {
	sess.State = session.Finished
	learner, err := e.learners.Find(ctx, r.chatID)
	if err != nil {
		return err
	}
	dayKey := model.DayKey(e.today())
	tally, err := e.learners.DailyTally(ctx, learner.ID, dayKey)
	if err != nil {
		return err
	}
	r.withMenu(textFinished(tally.Correct, tally.Total))
	e.publishReport(ctx, learner, tally)
	sess.Reset()
	return nil
}

func (e *Engine) handleUnknown(ctx context.Context, in chat.Inbound, sess *session.Context, r *replies) error {
	_, err := e.learners.Find(ctx, in.ChatID)
	if errors.Is(err, repository.ErrNotFound) {
		r.text(textNotRegistered)
		return nil
	}
	if err != nil {
		return err
	}
	sess.Reset()
	r.withMenu(textUnknown)
	return nil
}
