package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/litdrill/database"
	"github.com/lshigami/litdrill/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns a migrated in-memory sqlite database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateLearner(tb testing.TB, db *gorm.DB, chatID int64, name string) *model.Learner {
	tb.Helper()
	learner := &model.Learner{ChatID: chatID, DisplayName: name}
	if err := db.Create(learner).Error; err != nil {
		tb.Fatalf("create learner: %v", err)
	}
	return learner
}

type QuestionOption func(*model.Question)

func WithPassage(text string) QuestionOption {
	return func(q *model.Question) { q.PassageText = &text }
}

func WithOptions(text string) QuestionOption {
	return func(q *model.Question) { q.OptionsText = &text }
}

func Retired() QuestionOption {
	return func(q *model.Question) { q.Active = false }
}

func CreateQuestion(tb testing.TB, db *gorm.DB, line int, answerSpec string, opts ...QuestionOption) *model.Question {
	tb.Helper()
	q := &model.Question{
		Line:       line,
		PromptText: fmt.Sprintf("Question on line %d", line),
		AnswerSpec: answerSpec,
		Active:     true,
	}
	for _, opt := range opts {
		opt(q)
	}
	active := q.Active
	if err := db.Create(q).Error; err != nil {
		tb.Fatalf("create question: %v", err)
	}
	// Active has a database default, so false must be written explicitly.
	if !active {
		if err := db.Model(q).Update("active", false).Error; err != nil {
			tb.Fatalf("retire question: %v", err)
		}
		q.Active = false
	}
	return q
}

// SeedLines creates perLine active questions for every line.
func SeedLines(tb testing.TB, db *gorm.DB, lines []int, perLine int) map[int][]*model.Question {
	tb.Helper()
	out := make(map[int][]*model.Question)
	for _, line := range lines {
		for i := 0; i < perLine; i++ {
			out[line] = append(out[line], CreateQuestion(tb, db, line, "answer"))
		}
	}
	return out
}

func CreateAssignment(tb testing.TB, db *gorm.DB, learnerID, questionID uint, status model.AssignmentStatus, day string, submitted string) *model.Assignment {
	tb.Helper()
	a := &model.Assignment{
		LearnerID:    learnerID,
		QuestionID:   questionID,
		Status:       status,
		AssignedDate: day,
	}
	if submitted != "" {
		a.SubmittedText = &submitted
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("create assignment: %v", err)
	}
	return a
}
