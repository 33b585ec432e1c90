package model

import (
	"time"
)

// DateLayout is the calendar-day format stored in Assignment.AssignedDate.
const DateLayout = "2006-01-02"

type AssignmentStatus int

const (
	StatusPending AssignmentStatus = iota
	StatusCorrect
	StatusIncorrect
)

func (s AssignmentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Graded reports whether the status is terminal.
func (s AssignmentStatus) Graded() bool {
	return s == StatusCorrect || s == StatusIncorrect
}

// Assignment links a learner to a question exactly once.
type Assignment struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	LearnerID     uint             `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_question"`
	Learner       Learner          `json:"-" gorm:"foreignKey:LearnerID"`
	QuestionID    uint             `json:"question_id" gorm:"not null;uniqueIndex:idx_learner_question;index"`
	Question      Question         `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Status        AssignmentStatus `json:"status" gorm:"not null;default:0;index"`
	SubmittedText *string          `json:"submitted_text,omitempty" gorm:"type:text"`
	AssignedDate  string           `json:"assigned_date" gorm:"type:varchar(10);not null;index"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// DayKey formats t as the stored calendar day.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}
