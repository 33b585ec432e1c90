package dto

import (
	"time"

	"github.com/lshigami/litdrill/internal/chat"
)

type QuestionResponse struct {
	ID          uint      `json:"id"`
	Line        int       `json:"line"`
	PromptText  string    `json:"prompt_text"`
	OptionsText *string   `json:"options_text,omitempty"`
	PassageText *string   `json:"passage_text,omitempty"`
	AnswerSpec  string    `json:"answer_spec"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignmentResponse struct {
	ID            uint    `json:"id"`
	LearnerID     uint    `json:"learner_id"`
	QuestionID    uint    `json:"question_id"`
	Status        string  `json:"status" copier:"-"`
	SubmittedText *string `json:"submitted_text,omitempty"`
	AssignedDate  string  `json:"assigned_date"`
}

type TallyResponse struct {
	ChatID  int64                `json:"chat_id"`
	Name    string               `json:"name"`
	Day     string               `json:"day"`
	Correct int                  `json:"correct"`
	Total   int                  `json:"total"`
	Items   []AssignmentResponse `json:"items"`
}

type ImportResponse struct {
	Created int `json:"created"`
}

type UpdateResponse struct {
	Replies []chat.Outbound `json:"replies"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
