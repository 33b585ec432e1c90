package dto

// UpdateRequest is one conversational event forwarded by the chat gateway.
type UpdateRequest struct {
	ChatID     int64  `json:"chat_id" binding:"required"`
	Handle     string `json:"handle"`
	Kind       string `json:"kind" binding:"required,oneof=command text callback attachment"`
	Command    string `json:"command"`
	Text       string `json:"text"`
	Callback   string `json:"callback"`
	MessageRef string `json:"message_ref"`
}

// GradeRequest re-grades a recorded answer.
type GradeRequest struct {
	Correct *bool `json:"correct" binding:"required"`
}

type QuestionListQuery struct {
	Line   *int  `form:"line"`
	Active *bool `form:"active"`
}
