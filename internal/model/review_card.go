package model

import (
	"time"

	"gorm.io/datatypes"
)

// Annotation kinds applied to a review card by operator actions.
const (
	AnnotationPassage       = "passage"
	AnnotationMarkedCorrect = "marked_correct"
	AnnotationRetired       = "retired"
)

// ReviewCard is the operator-facing report item for one incorrect answer.
// The fields are a snapshot taken when the report was published; the
// displayed text is always rendered from them plus Annotations.
type ReviewCard struct {
	ID             uint                        `gorm:"primarykey" json:"id"`
	MessageRef     string                      `json:"message_ref" gorm:"not null;uniqueIndex"`
	OperatorChatID int64                       `json:"operator_chat_id" gorm:"not null"`
	AssignmentID   uint                        `json:"assignment_id" gorm:"not null;index"`
	QuestionID     uint                        `json:"question_id" gorm:"not null;index"`
	LearnerName    string                      `json:"learner_name"`
	Line           int                         `json:"line"`
	QuestionText   string                      `json:"question_text" gorm:"type:text"`
	PassageText    string                      `json:"passage_text" gorm:"type:text"`
	SubmittedText  string                      `json:"submitted_text" gorm:"type:text"`
	ExpectedAnswer string                      `json:"expected_answer"`
	Annotations    datatypes.JSONSlice[string] `json:"annotations"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (c *ReviewCard) Has(annotation string) bool {
	for _, a := range c.Annotations {
		if a == annotation {
			return true
		}
	}
	return false
}

// Annotate adds or removes an annotation. The order of first application is kept.
func (c *ReviewCard) Annotate(annotation string, on bool) {
	if on {
		if !c.Has(annotation) {
			c.Annotations = append(c.Annotations, annotation)
		}
		return
	}
	kept := c.Annotations[:0]
	for _, a := range c.Annotations {
		if a != annotation {
			kept = append(kept, a)
		}
	}
	c.Annotations = kept
}
