package model

import (
	"time"
)

// Question rows are never deleted. Retirement clears Active so history stays joinable.
type Question struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Line        int       `json:"line" gorm:"not null;index"`
	PromptText  string    `json:"prompt_text" gorm:"type:text;not null"`
	OptionsText *string   `json:"options_text,omitempty" gorm:"type:text"`
	PassageText *string   `json:"passage_text,omitempty" gorm:"type:text"`
	AnswerSpec  string    `json:"answer_spec" gorm:"not null"` // pipe-delimited accepted answers
	Active      bool      `json:"active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (q *Question) HasPassage() bool {
	return q.PassageText != nil && *q.PassageText != ""
}
