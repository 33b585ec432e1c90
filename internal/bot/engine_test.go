package bot

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/model"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/lshigami/litdrill/internal/session"
	"github.com/lshigami/litdrill/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	learnerChat  int64 = 100
	operatorChat int64 = 900
)

type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]chat.Outbound
}

func (n *recordingNotifier) Notify(batch []chat.Outbound) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, batch)
}

type harness struct {
	t        *testing.T
	db       *gorm.DB
	engine   *Engine
	sessions *session.MemoryStore
	notifier *recordingNotifier
	now      time.Time
	passage  *model.Question
}

// newHarness seeds one question per line. Line 8 expects "146", line 1 has a
// passage, every other line expects "ответ".
func newHarness(t *testing.T, strategy service.Strategy) *harness {
	t.Helper()
	db := testutil.DB(t)
	h := &harness{
		t:        t,
		db:       db,
		sessions: session.NewMemoryStore(time.Hour),
		notifier: &recordingNotifier{},
		now:      time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	for _, line := range service.DefaultLines {
		switch line {
		case 8:
			testutil.CreateQuestion(t, db, line, "146")
		case 1:
			h.passage = testutil.CreateQuestion(t, db, line, "ответ", testutil.WithPassage("Мой дядя самых честных правил"))
		default:
			testutil.CreateQuestion(t, db, line, "ответ")
		}
	}

	scheduler, err := service.NewLineScheduler(service.DefaultLines, service.DefaultWindow)
	require.NoError(t, err)
	learners := repository.NewLearnerRepository(db)
	questions := repository.NewQuestionRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	cards := repository.NewReviewCardRepository(db)

	h.engine = NewEngine(
		service.NewLearnerService(learners, assignments),
		questions,
		assignments,
		cards,
		service.NewAssignmentSelector(db, questions, assignments, scheduler, strategy, service.DefaultDailyQuota, rand.New(rand.NewSource(1))),
		service.NewAnswerValidator(service.DefaultNumericLine),
		service.NewModerationService(assignments, questions),
		h.sessions,
		h.notifier,
		Options{
			Resume:         true,
			OperatorChatID: operatorChat,
			Location:       time.UTC,
			Now:            func() time.Time { return h.now },
		},
	)
	return h
}

func (h *harness) send(in chat.Inbound) []chat.Outbound {
	h.t.Helper()
	out, err := h.engine.Handle(context.Background(), in)
	require.NoError(h.t, err)
	return out
}

func (h *harness) text(text string) []chat.Outbound {
	return h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventText, Text: text})
}

func (h *harness) command(cmd string) []chat.Outbound {
	return h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventCommand, Command: cmd})
}

func (h *harness) register() {
	h.t.Helper()
	h.command(CommandStart)
	h.text("Иванов Иван")
}

func texts(out []chat.Outbound) []string {
	res := make([]string, 0, len(out))
	for _, o := range out {
		res = append(res, o.Text)
	}
	return res
}

func (h *harness) learner() *model.Learner {
	var l model.Learner
	require.NoError(h.t, h.db.Where("chat_id = ?", learnerChat).First(&l).Error)
	return &l
}

func (h *harness) assignmentFor(questionID uint) *model.Assignment {
	var a model.Assignment
	require.NoError(h.t, h.db.Where("question_id = ?", questionID).First(&a).Error)
	return &a
}

func TestRegistration(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)

	out := h.text("привет")
	assert.Equal(t, []string{textNotRegistered}, texts(out))

	out = h.command(CommandStart)
	assert.Equal(t, []string{textGreeting}, texts(out))

	out = h.text("Иванов")
	assert.Equal(t, []string{textNameRetry}, texts(out))

	out = h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventAttachment})
	assert.Equal(t, []string{textNameRetry}, texts(out))

	out = h.text("  Иванов   Иван ")
	require.Len(t, out, 1)
	assert.Equal(t, textRegistered("Иванов Иван"), out[0].Text)
	assert.Equal(t, []string{TriggerLabel}, out[0].Keyboard)
	assert.Equal(t, "Иванов Иван", h.learner().DisplayName)

	out = h.command(CommandStart)
	assert.Equal(t, []string{textWelcomeBack("Иванов Иван")}, texts(out))
}

func TestDailySessionEndToEnd(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()

	out := h.text(TriggerLabel)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0].Text, textTaskHeader(1, 7)), out[0].Text)
	assert.Empty(t, out[0].Buttons)

	out = h.text("Ответ ")
	require.Len(t, out, 2)
	assert.Equal(t, textCorrect, out[0].Text)
	assert.True(t, strings.HasPrefix(out[1].Text, textTaskHeader(2, 8)))

	out = h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventAttachment})
	assert.Equal(t, []string{textAnswerAsText}, texts(out))

	out = h.text("1, 4 и 6")
	require.Len(t, out, 2)
	assert.Equal(t, textCorrect, out[0].Text)
	assert.True(t, strings.HasPrefix(out[1].Text, textTaskHeader(3, 1)))
	require.Len(t, out[1].Buttons, 1)
	assert.Equal(t, chat.LearnerCallback(chat.ActionPassage, h.passage.ID).Encode(), out[1].Buttons[0][0].Callback)

	out = h.text("не знаю")
	require.Len(t, out, 2)
	assert.Equal(t, textIncorrect, out[0].Text)
	assert.True(t, strings.HasPrefix(out[1].Text, textTaskHeader(4, 2)))

	h.text("ответ")
	out = h.text("ответ")
	require.Len(t, out, 2)
	assert.Equal(t, textCorrect, out[0].Text)
	assert.Equal(t, textFinished(4, 5), out[1].Text)
	assert.Equal(t, []string{TriggerLabel}, out[1].Keyboard)

	require.Len(t, h.notifier.batches, 1)
	batch := h.notifier.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, operatorChat, batch[0].ChatID)
	assert.Equal(t, textReportHeader("Иванов Иван", 4, 5), batch[0].Text)
	assert.Contains(t, batch[1].Text, "не знаю")
	assert.NotEmpty(t, batch[1].MessageRef)

	wrong := h.assignmentFor(h.passage.ID)
	assert.Equal(t, model.StatusIncorrect, wrong.Status)
	assert.Equal(t, "2026-01-10", wrong.AssignedDate)

	out = h.text(TriggerLabel)
	assert.Equal(t, []string{textPlanComplete}, texts(out))
}

func TestTriggerWhileAnsweringRepeatsCurrentItem(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()

	first := h.text(TriggerLabel)
	again := h.command(CommandTasks)
	require.Len(t, again, 1)
	assert.Equal(t, first[0].Text, again[0].Text)

	var n int64
	require.NoError(t, h.db.Model(&model.Assignment{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)
}

func TestResumeAfterLostSession(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()
	h.text(TriggerLabel)
	h.text("ответ")

	require.NoError(t, h.sessions.Delete(context.Background(), learnerChat))

	out := h.text("ответ")
	assert.Equal(t, []string{textUnknown}, texts(out))

	out = h.text(TriggerLabel)
	require.Len(t, out, 2)
	assert.Equal(t, textResume, out[0].Text)
	assert.True(t, strings.HasPrefix(out[1].Text, textTaskHeader(1, 8)), out[1].Text)
}

func TestDebtCarriesToNextDay(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()
	h.text(TriggerLabel)
	for _, answer := range []string{"ответ", "146", "неверно", "ответ", "ответ"} {
		h.text(answer)
	}

	h.now = h.now.Add(24 * time.Hour)
	var shown []string
	out := h.text(TriggerLabel)
	for i := 0; i < 10 && len(out) > 0; i++ {
		shown = append(shown, texts(out)...)
		if out[len(out)-1].Keyboard != nil {
			break
		}
		out = h.text("ответ")
	}

	var debts int
	for _, s := range shown {
		if strings.HasPrefix(s, textDebtHeader) {
			debts++
		}
	}
	assert.Equal(t, 1, debts)

	paid := h.assignmentFor(h.passage.ID)
	assert.Equal(t, model.StatusCorrect, paid.Status)
	assert.Equal(t, "2026-01-11", paid.AssignedDate)
}

func TestConcurrentTriggersAssignOnce(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.engine.Handle(context.Background(), chat.Inbound{ChatID: learnerChat, Kind: chat.EventText, Text: TriggerLabel})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int64
	require.NoError(t, h.db.Model(&model.Assignment{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)
}

func TestLearnerPassageCallback(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()

	out := h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventCallback, Callback: chat.LearnerCallback(chat.ActionPassage, h.passage.ID).Encode()})
	require.Len(t, out, 1)
	assert.Equal(t, textPassage("Мой дядя самых честных правил"), out[0].Text)

	out = h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventCallback, Callback: "u:passage:9999"})
	assert.Equal(t, chat.OutboundAlert, out[0].Kind)
	assert.Equal(t, textPassageMissing, out[0].Text)

	out = h.send(chat.Inbound{ChatID: learnerChat, Kind: chat.EventCallback, Callback: "garbage"})
	assert.Equal(t, textUnknownAction, out[0].Text)
}

func TestOperatorCallbacks(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()
	h.text(TriggerLabel)
	for _, answer := range []string{"ответ", "146", "неверно", "ответ", "ответ"} {
		h.text(answer)
	}
	require.Len(t, h.notifier.batches, 1)
	card := h.notifier.batches[0][1]
	wrong := h.assignmentFor(h.passage.ID)

	press := func(chatID int64, cb chat.Callback) []chat.Outbound {
		return h.send(chat.Inbound{ChatID: chatID, Kind: chat.EventCallback, Callback: cb.Encode(), MessageRef: card.MessageRef})
	}

	out := press(learnerChat, chat.OperatorCallback(chat.ActionMarkCorrect, wrong.ID))
	assert.Equal(t, []string{textForbidden}, texts(out))

	out = press(operatorChat, chat.OperatorCallback(chat.ActionPassage, wrong.ID))
	require.Len(t, out, 1)
	assert.Equal(t, chat.OutboundEdit, out[0].Kind)
	assert.Equal(t, card.MessageRef, out[0].MessageRef)
	assert.Contains(t, out[0].Text, "Мой дядя самых честных правил")

	out = press(operatorChat, chat.OperatorCallback(chat.ActionMarkCorrect, wrong.ID))
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Text, textMarkedCorrect)
	assert.Contains(t, out[0].Text, "Мой дядя самых честных правил")
	assert.Equal(t, textGradeChanged, out[1].Text)
	assert.Equal(t, model.StatusCorrect, h.assignmentFor(h.passage.ID).Status)

	out = press(operatorChat, chat.OperatorCallback(chat.ActionMarkIncorrect, wrong.ID))
	assert.NotContains(t, out[0].Text, textMarkedCorrect)
	after := h.assignmentFor(h.passage.ID)
	assert.Equal(t, model.StatusIncorrect, after.Status)
	assert.Equal(t, wrong.AssignedDate, after.AssignedDate)

	out = press(operatorChat, chat.OperatorCallback(chat.ActionRetire, h.passage.ID))
	assert.Contains(t, out[0].Text, textRetired)
	var q model.Question
	require.NoError(t, h.db.First(&q, h.passage.ID).Error)
	assert.False(t, q.Active)

	out = press(operatorChat, chat.OperatorCallback(chat.ActionMarkCorrect, 9999))
	assert.Equal(t, []string{textRecordMissing}, texts(out))
}

func TestDebtFirstRestartServesOnlyTheQuota(t *testing.T) {
	h := newHarness(t, service.StrategyDebtFirst)
	h.register()
	learner := h.learner()
	for i := 0; i < 7; i++ {
		q := testutil.CreateQuestion(t, h.db, 6, "ответ")
		testutil.CreateAssignment(t, h.db, learner.ID, q.ID, model.StatusIncorrect, "2026-01-09", "неверно")
	}

	out := h.text(TriggerLabel)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0].Text, textDebtHeader))
	h.text("ответ")
	h.text("ответ")

	require.NoError(t, h.sessions.Delete(context.Background(), learnerChat))

	out = h.text(TriggerLabel)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Text, textTaskHeader(1, 6))
	h.text("ответ")
	h.text("ответ")
	out = h.text("ответ")
	require.Len(t, out, 2)
	assert.Equal(t, textFinished(5, 5), out[1].Text)

	var n int64
	require.NoError(t, h.db.Model(&model.Assignment{}).Where("assigned_date = ?", "2026-01-10").Count(&n).Error)
	assert.Equal(t, int64(5), n)

	out = h.text(TriggerLabel)
	assert.Equal(t, []string{textPlanComplete}, texts(out))
}

func TestAnswerAfterMidnightDropsYesterdaysQueue(t *testing.T) {
	h := newHarness(t, service.StrategyNewFirst)
	h.register()
	h.text(TriggerLabel)
	h.text("ответ")

	h.now = h.now.Add(24 * time.Hour)
	out := h.text("146")
	require.Len(t, out, 1)
	assert.Equal(t, textStateLost, out[0].Text)
	assert.Equal(t, []string{TriggerLabel}, out[0].Keyboard)

	var graded int64
	require.NoError(t, h.db.Model(&model.Assignment{}).Where("assigned_date = ?", "2026-01-11").Count(&graded).Error)
	assert.Zero(t, graded)
	var pending int64
	require.NoError(t, h.db.Model(&model.Assignment{}).
		Where("assigned_date = ? AND status = ?", "2026-01-10", model.StatusPending).Count(&pending).Error)
	assert.Equal(t, int64(4), pending)

	// Day 11 schedules [8 1 2 3 6]; only line 6 is still unseen.
	out = h.text(TriggerLabel)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0].Text, textTaskHeader(1, 6)), out[0].Text)
}
